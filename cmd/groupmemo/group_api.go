package main

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kdudkov/groupmemo/internal/apperr"
	"github.com/kdudkov/groupmemo/internal/model"
)

type groupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func addGroupRoutes(app *App, r fiber.Router) {
	r.Get("/", getGroupsHandler(app))
	r.Post("/", createGroupHandler(app))
	r.Get("/:groupId", getGroupHandler(app))
	r.Put("/:groupId", updateGroupHandler(app))
	r.Delete("/:groupId", deleteGroupHandler(app))
	r.Post("/:groupId/leave", leaveGroupHandler(app))
	r.Post("/:groupId/invite-user", addGroupUserHandler(app))
	r.Put("/:groupId/members/:userId", changeRoleHandler(app))
	r.Delete("/:groupId/members/:userId", removeMemberHandler(app))
}

func getGroupsHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		groups, err := app.svc.ListGroups(User(ctx).GetID())
		if err != nil {
			return err
		}

		return ctx.JSON(fiber.Map{"groups": groups})
	}
}

func createGroupHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		var req groupRequest

		if err := parseBody(ctx, &req); err != nil {
			return err
		}

		g, err := app.svc.CreateGroup(User(ctx).GetID(), req.Name, req.Description)
		if err != nil {
			return err
		}

		return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"group": g.DTO()})
	}
}

func getGroupHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id, err := paramID(ctx, "groupId")
		if err != nil {
			return err
		}

		d, err := app.svc.GetGroup(id, User(ctx).GetID())
		if err != nil {
			return err
		}

		return ctx.JSON(fiber.Map{"group": d.DTO()})
	}
}

func updateGroupHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id, err := paramID(ctx, "groupId")
		if err != nil {
			return err
		}

		var req groupRequest

		if err := parseBody(ctx, &req); err != nil {
			return err
		}

		g, err := app.svc.UpdateGroup(id, User(ctx).GetID(), req.Name, req.Description)
		if err != nil {
			return err
		}

		return ctx.JSON(fiber.Map{"group": g.DTO()})
	}
}

func deleteGroupHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id, err := paramID(ctx, "groupId")
		if err != nil {
			return err
		}

		if err := app.svc.DeleteGroup(id, User(ctx).GetID()); err != nil {
			return err
		}

		return message(ctx, "group deleted")
	}
}

func leaveGroupHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id, err := paramID(ctx, "groupId")
		if err != nil {
			return err
		}

		if err := app.svc.LeaveGroup(id, User(ctx).GetID()); err != nil {
			return err
		}

		return message(ctx, "left the group")
	}
}

func addGroupUserHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id, err := paramID(ctx, "groupId")
		if err != nil {
			return err
		}

		var req struct {
			UserID uint `json:"userId"`
		}

		if err := parseBody(ctx, &req); err != nil {
			return err
		}

		if req.UserID == 0 {
			return apperr.Validation("userId is required")
		}

		m, err := app.svc.AddUser(id, User(ctx).GetID(), req.UserID)
		if err != nil {
			return err
		}

		return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"member": m.DTO()})
	}
}

func changeRoleHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id, err := paramID(ctx, "groupId")
		if err != nil {
			return err
		}

		userID, err := paramID(ctx, "userId")
		if err != nil {
			return err
		}

		var req struct {
			Role string `json:"role"`
		}

		if err := parseBody(ctx, &req); err != nil {
			return err
		}

		role, err := model.ParseRole(req.Role)
		if err != nil {
			return apperr.Validation(err.Error())
		}

		if err := app.svc.ChangeRole(id, User(ctx).GetID(), userID, role); err != nil {
			return err
		}

		return message(ctx, "role changed")
	}
}

func removeMemberHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id, err := paramID(ctx, "groupId")
		if err != nil {
			return err
		}

		userID, err := paramID(ctx, "userId")
		if err != nil {
			return err
		}

		if err := app.svc.RemoveGroupMember(id, User(ctx).GetID(), userID); err != nil {
			return err
		}

		return message(ctx, "member removed")
	}
}
