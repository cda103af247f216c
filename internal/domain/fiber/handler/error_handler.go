package handler

import (
	"errors"

	"github.com/fadilmartias/mock-interview/internal/aioutput"
	"github.com/fadilmartias/mock-interview/internal/middleware"
	"github.com/fadilmartias/mock-interview/internal/usecase"
	"github.com/fadilmartias/mock-interview/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// respondError maps usecase errors onto HTTP statuses and the standard
// error envelope.
func respondError(c *fiber.Ctx, err error) error {
	var (
		formErr   *util.FormError
		malformed *aioutput.MalformedOutputError
		quota     *usecase.QuotaError
	)
	switch {
	case errors.As(err, &formErr):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: formErr.Message,
			Details: formErr.Errors,
		}, err)
	case errors.As(err, &malformed):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadGateway,
			Message: "The AI returned an unexpected response, please try again",
			Details: fiber.Map{"shape": malformed.Shape, "raw": malformed.Raw, "cleaned": malformed.Cleaned},
		}, err)
	case errors.As(err, &quota):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusForbidden,
			Message: "Usage limit reached for your plan",
			Details: fiber.Map{"plan": quota.Plan, "category": quota.Category, "used": quota.Used, "limit": quota.Limit},
		}, err)
	}

	code, message := fiber.StatusInternalServerError, "Internal server error"
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		code, message = fiber.StatusNotFound, "Resource not found"
	case errors.Is(err, usecase.ErrQuotaExceeded):
		code, message = fiber.StatusForbidden, "Usage limit reached for your plan"
	case errors.Is(err, usecase.ErrPlanNotFound):
		code, message = fiber.StatusInternalServerError, "Plan limits are not configured"
	case errors.Is(err, usecase.ErrUpstream):
		code, message = fiber.StatusBadGateway, "The AI service is unavailable, please try again"
	case errors.Is(err, usecase.ErrSessionCompleted):
		code, message = fiber.StatusConflict, "Interview session is already completed"
	case errors.Is(err, usecase.ErrAllAnswered):
		code, message = fiber.StatusConflict, "All interview questions are already answered"
	case errors.Is(err, usecase.ErrConcurrentUpdate):
		code, message = fiber.StatusConflict, "Interview session was updated concurrently, please retry"
	case errors.Is(err, usecase.ErrInvalidInput):
		code, message = fiber.StatusBadRequest, err.Error()
	case errors.Is(err, usecase.ErrInvalidCredentials):
		code, message = fiber.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, usecase.ErrEmailTaken):
		code, message = fiber.StatusConflict, "Email is already registered"
	}
	return util.ErrorResponse(c, util.ErrorResponseFormat{Code: code, Message: message}, err)
}

// parseBody decodes the JSON body and runs the request's field validation.
func parseBody[T interface{ Validate() map[string]string }](c *fiber.Ctx) (T, error) {
	var req T
	if err := c.BodyParser(&req); err != nil {
		return req, util.NewFormError("Invalid request body", map[string]string{"body": err.Error()})
	}
	if errs := req.Validate(); len(errs) > 0 {
		return req, util.NewFormError("Validation failed", errs)
	}
	return req, nil
}

func paramID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, util.NewFormError("Invalid id", map[string]string{"id": "must be a UUID"})
	}
	return id, nil
}

func currentUser(c *fiber.Ctx) (uuid.UUID, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return uuid.Nil, usecase.ErrInvalidCredentials
	}
	return id, nil
}
