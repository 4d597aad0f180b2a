package connection

import (
	"github.com/buildwithfavas/mind-merge/internal/identity"
	"github.com/buildwithfavas/mind-merge/internal/shared/paging"
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Get("/friends", func(c *fiber.Ctx) error {
		uid := identity.CallerFromCtx(c).UID
		page, limit := paging.Parse(c.Query("page"), c.Query("limit"), 20, 100)
		res, err := svc.Friends(c.Context(), uid, c.Query("q"), page, limit)
		if err != nil {
			return err
		}
		return c.JSON(res)
	})

	r.Get("/requests", func(c *fiber.Ctx) error {
		uid := identity.CallerFromCtx(c).UID
		res, err := svc.IncomingRequests(c.Context(), uid)
		if err != nil {
			return err
		}
		return c.JSON(res)
	})

	r.Get("/suggestions", func(c *fiber.Ctx) error {
		uid := identity.CallerFromCtx(c).UID
		page, limit := paging.Parse(c.Query("page"), c.Query("limit"), 20, 100)
		res, err := svc.Suggestions(c.Context(), uid, c.Query("q"), page, limit)
		if err != nil {
			return err
		}
		return c.JSON(res)
	})

	r.Post("/request", func(c *fiber.Ctx) error {
		var body struct {
			AddresseeID string `json:"addresseeId"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		uid := identity.CallerFromCtx(c).UID
		if err := svc.Request(c.Context(), uid, body.AddresseeID); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"ok": true})
	})

	r.Post("/respond", func(c *fiber.Ctx) error {
		var body struct {
			RequesterID string `json:"requesterId"`
			Action      string `json:"action"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		uid := identity.CallerFromCtx(c).UID
		if err := svc.Respond(c.Context(), uid, body.RequesterID, body.Action); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"ok": true})
	})

	r.Post("/mark", func(c *fiber.Ctx) error {
		var body struct {
			AddresseeID string `json:"addresseeId"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		uid := identity.CallerFromCtx(c).UID
		if err := svc.MarkAccepted(c.Context(), uid, body.AddresseeID); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"ok": true})
	})

	r.Delete("/unfriend/:userId", func(c *fiber.Ctx) error {
		uid := identity.CallerFromCtx(c).UID
		if err := svc.Unfriend(c.Context(), uid, c.Params("userId")); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"ok": true})
	})
}
