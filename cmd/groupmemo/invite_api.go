package main

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kdudkov/groupmemo/internal/model"
)

func addInviteRoutes(app *App, r fiber.Router, auth fiber.Handler) {
	r.Get("/code/:code", inspectInviteHandler(app))
	r.Post("/join/:code", auth, joinInviteHandler(app))
	r.Post("/:groupId", auth, issueInviteHandler(app))
	r.Get("/:groupId", auth, listInvitesHandler(app))
	r.Delete("/:groupId/:inviteId", auth, deactivateInviteHandler(app))
}

// inviteURL is the landing page of the code on the configured origin, or on the
// origin of the request when none is configured.
func inviteURL(app *App, ctx *fiber.Ctx, code string) string {
	origin := app.config.Origin()

	if origin == "" {
		origin = ctx.BaseURL()
	}

	return origin + "/invite/" + code
}

func issueInviteHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id, err := paramID(ctx, "groupId")
		if err != nil {
			return err
		}

		var req struct {
			ExpiresIn int `json:"expiresIn"`
			MaxUses   int `json:"maxUses"`
		}

		if err := parseBody(ctx, &req); err != nil {
			return err
		}

		inv, err := app.svc.IssueInvite(id, User(ctx).GetID(), req.ExpiresIn, req.MaxUses)
		if err != nil {
			return err
		}

		return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"invite": inv.DTO(inviteURL(app, ctx, inv.Code))})
	}
}

func listInvitesHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id, err := paramID(ctx, "groupId")
		if err != nil {
			return err
		}

		invites, err := app.svc.ListInvites(id, User(ctx).GetID())
		if err != nil {
			return err
		}

		res := make([]*model.InviteDTO, len(invites))
		for i, inv := range invites {
			res[i] = inv.DTO(inviteURL(app, ctx, inv.Code))
		}

		return ctx.JSON(fiber.Map{"invites": res})
	}
}

func inspectInviteHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		sum, err := app.svc.InspectInvite(ctx.Params("code"))
		if err != nil {
			return err
		}

		return ctx.JSON(fiber.Map{"invite": sum})
	}
}

func joinInviteHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		g, err := app.svc.RedeemInvite(ctx.Params("code"), User(ctx).GetID())
		if err != nil {
			return err
		}

		return ctx.JSON(fiber.Map{"message": "joined the group", "group": g.DTO()})
	}
}

func deactivateInviteHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id, err := paramID(ctx, "groupId")
		if err != nil {
			return err
		}

		inviteID, err := paramID(ctx, "inviteId")
		if err != nil {
			return err
		}

		if err := app.svc.DeactivateInvite(id, inviteID, User(ctx).GetID()); err != nil {
			return err
		}

		return message(ctx, "invite deactivated")
	}
}
