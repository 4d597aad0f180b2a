package post

import (
	"github.com/buildwithfavas/mind-merge/internal/identity"
	"github.com/buildwithfavas/mind-merge/internal/shared/paging"
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Post("/", func(c *fiber.Ctx) error {
		var body struct {
			URL   string `json:"url"`
			Title string `json:"title"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		uid := identity.CallerFromCtx(c).UID
		p, err := svc.Create(c.Context(), uid, body.URL, body.Title)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	})

	// The response shape depends on the calling convention: a page parameter
	// selects the paginated envelope, otherwise a bare array is returned.
	r.Get("/", func(c *fiber.Ctx) error {
		uid := identity.CallerFromCtx(c).UID
		pageStr := c.Query("page")
		page, pageSize := paging.Parse(pageStr, c.Query("pageSize"), 10, 50)

		q := FeedQuery{
			UserID:      uid,
			Mine:        c.Query("mine") == "true",
			IncludeDone: c.Query("includeDone") == "true",
			Page:        page,
			PageSize:    pageSize,
			Paginate:    pageStr != "",
		}
		items, total, err := svc.Feed(c.Context(), q)
		if err != nil {
			return err
		}
		if !q.Paginate {
			return c.JSON(items)
		}
		return c.JSON(FeedPage{
			Items:    items,
			Page:     page,
			PageSize: pageSize,
			Total:    total,
			HasMore:  paging.HasMore(page, pageSize, total),
		})
	})

	r.Patch("/:id", func(c *fiber.Ctx) error {
		var body struct {
			Title *string `json:"title"`
			URL   *string `json:"url"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		uid := identity.CallerFromCtx(c).UID
		p, err := svc.Update(c.Context(), uid, c.Params("id"), body.Title, body.URL)
		if err != nil {
			return err
		}
		return c.JSON(p)
	})

	r.Delete("/:id", func(c *fiber.Ctx) error {
		uid := identity.CallerFromCtx(c).UID
		if err := svc.Delete(c.Context(), uid, c.Params("id")); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"ok": true})
	})

	r.Post("/:id/done", func(c *fiber.Ctx) error {
		uid := identity.CallerFromCtx(c).UID
		if err := svc.MarkDone(c.Context(), uid, c.Params("id")); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"ok": true})
	})

	r.Delete("/:id/done", func(c *fiber.Ctx) error {
		uid := identity.CallerFromCtx(c).UID
		if err := svc.UndoDone(c.Context(), uid, c.Params("id")); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"ok": true})
	})

	r.Post("/:id/engage", func(c *fiber.Ctx) error {
		var body struct {
			Liked     bool `json:"liked"`
			Commented bool `json:"commented"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		uid := identity.CallerFromCtx(c).UID
		metrics, err := svc.Engage(c.Context(), uid, c.Params("id"), body.Liked, body.Commented)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"ok":      true,
			"metrics": metrics,
			"me":      Engagement{Liked: body.Liked, Commented: body.Commented},
		})
	})
}
