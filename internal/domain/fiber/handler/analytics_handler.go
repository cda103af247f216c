package handler

import (
	"github.com/fadilmartias/mock-interview/internal/usecase"
	"github.com/fadilmartias/mock-interview/internal/util"
	"github.com/gofiber/fiber/v2"
)

type AnalyticsHandler struct {
	uc *usecase.AnalyticsUsecase
}

func NewAnalyticsHandler(uc *usecase.AnalyticsUsecase) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc}
}

func (h *AnalyticsHandler) RegisterRoutes(app *fiber.App, auth fiber.Handler) {
	app.Get("/analytics/me", auth, h.Me)
}

func (h *AnalyticsHandler) Me(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	stats, err := h.uc.ForUser(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get analytics",
		Data:    stats,
	})
}
