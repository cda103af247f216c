package handler

import (
	"time"

	"github.com/fadilmartias/mock-interview/internal/dto"
	"github.com/fadilmartias/mock-interview/internal/middleware"
	"github.com/fadilmartias/mock-interview/internal/usecase"
	"github.com/fadilmartias/mock-interview/internal/util"
	"github.com/gofiber/fiber/v2"
)

type FeedbackHandler struct {
	uc *usecase.FeedbackUsecase
}

func NewFeedbackHandler(uc *usecase.FeedbackUsecase) *FeedbackHandler {
	return &FeedbackHandler{uc: uc}
}

func (h *FeedbackHandler) RegisterRoutes(app *fiber.App, auth fiber.Handler) {
	app.Post("/interviews/:id/feedback", auth, middleware.RateLimiter(5, 1*time.Minute), h.Generate)
	app.Get("/interviews/:id/feedback", auth, h.GetBySession)
	app.Get("/feedback", auth, h.List)
}

func (h *FeedbackHandler) Generate(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	report, err := h.uc.Generate(c.UserContext(), id, userID)
	if err != nil {
		return respondError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Success generate feedback",
		Data:    dto.NewFeedbackReportDTO(report),
	})
}

func (h *FeedbackHandler) GetBySession(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	report, err := h.uc.GetBySession(c.UserContext(), userID, id)
	if err != nil {
		return respondError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get feedback",
		Data:    dto.NewFeedbackReportDTO(report),
	})
}

func (h *FeedbackHandler) List(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	reports, err := h.uc.ListForUser(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	data := make([]dto.FeedbackReportDTO, 0, len(reports))
	for i := range reports {
		data = append(data, dto.NewFeedbackReportDTO(&reports[i]))
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get feedback reports",
		Data:    data,
	})
}
