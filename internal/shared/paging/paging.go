package paging

import "strconv"

// Parse clamps page and size query values: page >= 1, 1 <= size <= max,
// falling back to def when size is missing or malformed.
func Parse(pageStr, sizeStr string, def, max int) (page, size int) {
	page, _ = strconv.Atoi(pageStr)
	if page < 1 {
		page = 1
	}
	size, _ = strconv.Atoi(sizeStr)
	if size < 1 {
		size = def
	}
	if size > max {
		size = max
	}
	return page, size
}

func Offset(page, size int) int {
	return (page - 1) * size
}

func HasMore(page, size, total int) bool {
	return page*size < total
}
