package handler

import (
	"time"

	"github.com/fadilmartias/mock-interview/internal/dto"
	"github.com/fadilmartias/mock-interview/internal/middleware"
	"github.com/fadilmartias/mock-interview/internal/response"
	"github.com/fadilmartias/mock-interview/internal/usecase"
	"github.com/fadilmartias/mock-interview/internal/util"
	"github.com/gofiber/fiber/v2"
)

type InterviewHandler struct {
	uc *usecase.InterviewUsecase
}

func NewInterviewHandler(uc *usecase.InterviewUsecase) *InterviewHandler {
	return &InterviewHandler{uc: uc}
}

func (h *InterviewHandler) RegisterRoutes(app *fiber.App, auth fiber.Handler) {
	startLimit := middleware.RateLimiter(5, 1*time.Minute)
	answerLimit := middleware.RateLimiter(20, 1*time.Minute)

	interviews := app.Group("/interviews")
	interviews.Post("/", auth, startLimit, h.Start)
	interviews.Get("/", auth, h.List)
	interviews.Get("/:id", auth, h.Get)
	interviews.Post("/:id/answers", auth, answerLimit, h.Answer)
	interviews.Post("/:id/complete", auth, h.Complete)
}

func (h *InterviewHandler) Start(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	req, err := parseBody[dto.StartInterviewRequest](c)
	if err != nil {
		return respondError(c, err)
	}
	session, err := h.uc.Start(c.UserContext(), userID, req.Role, req.Details)
	if err != nil {
		return respondError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Success start interview",
		Data:    dto.NewInterviewSessionDTO(session),
	})
}

func (h *InterviewHandler) List(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	page, pageSize := usecase.NormalizePage(c.QueryInt("page", 1), c.QueryInt("page_size", usecase.DefaultPageSize))
	sessions, total, err := h.uc.ListForUser(c.UserContext(), userID, page, pageSize)
	if err != nil {
		return respondError(c, err)
	}
	data := make([]dto.InterviewSessionDTO, 0, len(sessions))
	for i := range sessions {
		data = append(data, dto.NewInterviewSessionDTO(&sessions[i]))
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message:    "Success get interviews",
		Data:       data,
		Pagination: response.NewPagination(page, pageSize, total, len(data)),
	})
}

func (h *InterviewHandler) Get(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	session, err := h.uc.Get(c.UserContext(), userID, id)
	if err != nil {
		return respondError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get interview",
		Data:    dto.NewInterviewSessionDTO(session),
	})
}

func (h *InterviewHandler) Answer(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	req, err := parseBody[dto.AnswerRequest](c)
	if err != nil {
		return respondError(c, err)
	}
	result, err := h.uc.EvaluateAnswer(c.UserContext(), userID, id, req.Question, req.Answer)
	if err != nil {
		return respondError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Success evaluate answer",
		Data: dto.AnswerResponse{
			Evaluation: dto.NewAnswerDTO(result.Answer),
			Status:     string(result.Session.Status),
			Remaining:  result.Session.Remaining(),
		},
	})
}

func (h *InterviewHandler) Complete(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	session, err := h.uc.Complete(c.UserContext(), userID, id)
	if err != nil {
		return respondError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success complete interview",
		Data:    dto.NewInterviewSessionDTO(session),
	})
}
