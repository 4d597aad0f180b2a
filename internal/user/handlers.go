package user

import (
	"github.com/buildwithfavas/mind-merge/internal/identity"
	"github.com/buildwithfavas/mind-merge/internal/post"
	"github.com/buildwithfavas/mind-merge/internal/shared/paging"
	"github.com/gofiber/fiber/v2"
)

// RegisterMeRoutes wires the caller-scoped routes. The done history lives on
// the post service since it joins the ledger with the feed enrichment.
func RegisterMeRoutes(r fiber.Router, svc *Service, posts *post.Service) {
	r.Get("/", func(c *fiber.Ctx) error {
		me, err := svc.Me(c.Context(), identity.CallerFromCtx(c))
		if err != nil {
			return err
		}
		return c.JSON(me)
	})

	r.Get("/done", func(c *fiber.Ctx) error {
		uid := identity.CallerFromCtx(c).UID
		items, err := posts.DoneList(c.Context(), uid)
		if err != nil {
			return err
		}
		return c.JSON(items)
	})

	r.Get("/profile", func(c *fiber.Ctx) error {
		uid := identity.CallerFromCtx(c).UID
		p, err := svc.Profile(c.Context(), uid)
		if err != nil {
			return err
		}
		return c.JSON(p)
	})

	r.Post("/profile", func(c *fiber.Ctx) error {
		var body struct {
			Name        string `json:"name"`
			LinkedinURL string `json:"linkedinUrl"`
			PhotoURL    string `json:"photoURL"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		uid := identity.CallerFromCtx(c).UID
		if err := svc.SaveProfile(c.Context(), uid, body.Name, body.LinkedinURL, body.PhotoURL); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"ok": true})
	})
}

func RegisterDirectoryRoutes(r fiber.Router, svc *Service) {
	r.Get("/", func(c *fiber.Ctx) error {
		uid := identity.CallerFromCtx(c).UID
		page, pageSize := paging.Parse(c.Query("page"), c.Query("pageSize"), 20, 50)
		res, err := svc.Directory(c.Context(), uid, page, pageSize)
		if err != nil {
			return err
		}
		return c.JSON(res)
	})
}
