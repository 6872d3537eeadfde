package main

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kdudkov/groupmemo/internal/model"
)

type credentials struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func addAuthRoutes(app *App, r fiber.Router, auth fiber.Handler) {
	r.Post("/register", getRegisterHandler(app))
	r.Post("/login", getLoginHandler(app))
	r.Get("/me", auth, getMeHandler())
}

func getRegisterHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		var req credentials

		if err := parseBody(ctx, &req); err != nil {
			return err
		}

		u, err := app.svc.Register(req.Username, req.Email, req.Password)
		if err != nil {
			return err
		}

		return sendToken(app, ctx.Status(fiber.StatusCreated), u)
	}
}

func getLoginHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		var req credentials

		if err := parseBody(ctx, &req); err != nil {
			return err
		}

		u, err := app.svc.Login(req.Email, req.Password)
		if err != nil {
			return err
		}

		return sendToken(app, ctx, u)
	}
}

func getMeHandler() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"user": User(ctx).DTO()})
	}
}

func sendToken(app *App, ctx *fiber.Ctx, u *model.User) error {
	tok, err := app.tokens.Issue(u.ID, u.Email)
	if err != nil {
		return err
	}

	return ctx.JSON(fiber.Map{"token": tok, "user": u.DTO()})
}
