package main

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kdudkov/groupmemo/internal/apperr"
	"github.com/kdudkov/groupmemo/internal/model"
)

type memoRequest struct {
	GroupID uint   `json:"groupId"`
	Content string `json:"content"`
}

func addMemoRoutes(app *App, r fiber.Router) {
	r.Get("/group/:groupId", getMemosHandler(app))
	r.Post("/", createMemoHandler(app))
	r.Put("/:id", updateMemoHandler(app))
	r.Delete("/:id", deleteMemoHandler(app))
}

func getMemosHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id, err := paramID(ctx, "groupId")
		if err != nil {
			return err
		}

		memos, err := app.svc.ListMemos(id, User(ctx).GetID())
		if err != nil {
			return err
		}

		res := make([]*model.MemoDTO, len(memos))
		for i, m := range memos {
			res[i] = m.DTO()
		}

		return ctx.JSON(fiber.Map{"memos": res})
	}
}

func createMemoHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		var req memoRequest

		if err := parseBody(ctx, &req); err != nil {
			return err
		}

		if req.GroupID == 0 {
			return apperr.Validation("groupId is required")
		}

		m, err := app.svc.CreateMemo(req.GroupID, User(ctx).GetID(), req.Content)
		if err != nil {
			return err
		}

		return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"memo": m.DTO()})
	}
}

func updateMemoHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id, err := paramID(ctx, "id")
		if err != nil {
			return err
		}

		var req memoRequest

		if err := parseBody(ctx, &req); err != nil {
			return err
		}

		m, err := app.svc.UpdateMemo(id, User(ctx).GetID(), req.Content)
		if err != nil {
			return err
		}

		return ctx.JSON(fiber.Map{"memo": m.DTO()})
	}
}

func deleteMemoHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id, err := paramID(ctx, "id")
		if err != nil {
			return err
		}

		if err := app.svc.DeleteMemo(id, User(ctx).GetID()); err != nil {
			return err
		}

		return message(ctx, "memo deleted")
	}
}
