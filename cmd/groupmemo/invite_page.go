package main

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kdudkov/groupmemo/internal/apperr"
)

// getInvitePageHandler renders what the invite leads to, or why it leads nowhere.
func getInvitePageHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		code := ctx.Params("code")
		data := fiber.Map{"code": code, "title": "Group invite"}

		sum, err := app.svc.InspectInvite(code)
		if err != nil {
			if !apperr.IsKnown(err) {
				return err
			}

			data["error"] = err.Error()

			return ctx.Status(apperr.Status(err)).Render("templates/invite", data, "templates/header")
		}

		data["invite"] = sum

		return ctx.Render("templates/invite", data, "templates/header")
	}
}
