package handler

import (
	"time"

	"github.com/fadilmartias/mock-interview/internal/dto"
	"github.com/fadilmartias/mock-interview/internal/middleware"
	"github.com/fadilmartias/mock-interview/internal/usecase"
	"github.com/fadilmartias/mock-interview/internal/util"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	uc *usecase.AuthUsecase
}

func NewAuthHandler(uc *usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

func (h *AuthHandler) RegisterRoutes(app *fiber.App) {
	auth := app.Group("/auth", middleware.RateLimiter(10, 1*time.Minute))
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	req, err := parseBody[dto.RegisterRequest](c)
	if err != nil {
		return respondError(c, err)
	}
	user, err := h.uc.Register(c.UserContext(), req.Email, req.Name, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Success register",
		Data:    dto.NewUserDTO(user),
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	req, err := parseBody[dto.LoginRequest](c)
	if err != nil {
		return respondError(c, err)
	}
	token, user, err := h.uc.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success login",
		Data:    dto.LoginResponse{Token: token, User: dto.NewUserDTO(user)},
	})
}
