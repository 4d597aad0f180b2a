package admin

import (
	"github.com/buildwithfavas/mind-merge/internal/identity"
	"github.com/buildwithfavas/mind-merge/internal/shared/paging"
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Use(identity.AdminOnly())

	r.Get("/users", func(c *fiber.Ctx) error {
		page, pageSize := paging.Parse(c.Query("page"), c.Query("pageSize"), 20, 100)
		res, err := svc.ListUsers(c.Context(), c.Query("q"), c.Query("role"), c.Query("blocked"), page, pageSize)
		if err != nil {
			return err
		}
		return c.JSON(res)
	})

	r.Post("/users", func(c *fiber.Ctx) error {
		var input UserInput
		if err := c.BodyParser(&input); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		u, err := svc.CreateUser(c.Context(), input)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(u)
	})

	r.Patch("/users/:id", func(c *fiber.Ctx) error {
		var patch UserPatch
		if err := c.BodyParser(&patch); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		u, err := svc.UpdateUser(c.Context(), c.Params("id"), patch)
		if err != nil {
			return err
		}
		return c.JSON(u)
	})

	r.Post("/users/:id/block", func(c *fiber.Ctx) error {
		var body struct {
			Reason string `json:"reason"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		u, err := svc.BlockUser(c.Context(), c.Params("id"), body.Reason)
		if err != nil {
			return err
		}
		return c.JSON(u)
	})

	r.Post("/users/:id/unblock", func(c *fiber.Ctx) error {
		u, err := svc.UnblockUser(c.Context(), c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(u)
	})

	r.Delete("/users/:id", func(c *fiber.Ctx) error {
		caller := identity.CallerFromCtx(c)
		if err := svc.DeleteUser(c.Context(), caller.UID, c.Params("id")); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"ok": true})
	})

	r.Get("/posts", func(c *fiber.Ctx) error {
		page, pageSize := paging.Parse(c.Query("page"), c.Query("pageSize"), 20, 100)
		res, err := svc.ListPosts(c.Context(), c.Query("q"), c.Query("userId"), page, pageSize)
		if err != nil {
			return err
		}
		return c.JSON(res)
	})

	r.Delete("/posts/:id", func(c *fiber.Ctx) error {
		if err := svc.DeletePost(c.Context(), c.Params("id")); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"ok": true})
	})
}
