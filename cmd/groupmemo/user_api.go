package main

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kdudkov/groupmemo/internal/model"
)

func addUserRoutes(app *App, r fiber.Router) {
	r.Get("/search", getUserSearchHandler(app))
}

func getUserSearchHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		users, err := app.svc.SearchUsers(ctx.Query("query"), User(ctx).GetID())
		if err != nil {
			return err
		}

		res := make([]*model.UserDTO, len(users))
		for i, u := range users {
			res[i] = u.DTO()
		}

		return ctx.JSON(fiber.Map{"users": res})
	}
}
