// Package display derives the public name and avatar shown for a sharer.
// The fallbacks are deterministic: the same inputs always produce the same
// output, so clients can cache by value.
package display

import (
	"net/url"
	"strings"
)

const avatarService = "https://ui-avatars.com/api/"

// Name falls back from the chosen profile name to the email local part, then
// to a generic placeholder.
func Name(name, email string) string {
	if name != "" {
		return name
	}
	if email != "" {
		if at := strings.Index(email, "@"); at > 0 {
			return email[:at]
		}
		return email
	}
	return "Friend"
}

// Avatar returns photoURL unchanged when set, else a generated placeholder
// keyed by the display name.
func Avatar(photoURL, displayName string) string {
	if photoURL != "" {
		return photoURL
	}
	return avatarService + "?name=" + url.QueryEscape(displayName) + "&background=1f2937&color=f8fafc"
}
