package api

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/Naveen-mishra11/Private-Knowledge-Q-A/app/agent"
	"github.com/Naveen-mishra11/Private-Knowledge-Q-A/app/service"
	"github.com/Naveen-mishra11/Private-Knowledge-Q-A/model"
	"github.com/Naveen-mishra11/Private-Knowledge-Q-A/store"
)

// ErrorHandler is the single place where errors become HTTP responses.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if apiError, ok := err.(Error); ok {
		return c.Status(apiError.Code).JSON(apiError)
	}
	if valError, ok := err.(ValidationError); ok {
		return c.Status(valError.Status).JSON(valError)
	}
	if fiberError, ok := err.(*fiber.Error); ok {
		return c.Status(fiberError.Code).JSON(NewError(fiberError.Code, fiberError.Message))
	}

	slog.Error("request failed", "error", err.Error())
	return c.Status(fiber.StatusInternalServerError).JSON(NewError(fiber.StatusInternalServerError, err.Error()))
}

// mapServiceError translates the orchestrators' error taxonomy into the
// wire shape. Each class keeps its own status so callers can tell "bad
// request" from "nothing ingested" from "upstream broken".
func mapServiceError(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound("document")
	case errors.Is(err, service.ErrEmptyDocument),
		errors.Is(err, service.ErrEmptyQuestion):
		return ErrInvalidInput(err.Error())
	case errors.Is(err, model.ErrEmptyCorpus):
		return ErrEmptyCorpus()
	case errors.Is(err, agent.ErrUnavailable):
		return ErrUnavailable(err.Error())
	default:
		return err
	}
}

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"error"`
}

// Error implements the error interface
func (e Error) Error() string {
	return e.Message
}

type ValidationError struct {
	Status int               `json:"status"`
	Errors map[string]string `json:"errors"`
}

func (e ValidationError) Error() string {
	return "validation failed"
}

func NewValidationError(errors map[string]string) ValidationError {
	return ValidationError{
		Status: fiber.StatusUnprocessableEntity,
		Errors: errors,
	}
}

func NewError(code int, err string) Error {
	return Error{
		Code:    code,
		Message: err,
	}
}

func ErrBadRequest() Error {
	return Error{
		Code:    fiber.StatusBadRequest,
		Message: "invalid JSON request",
	}
}

func ErrInvalidID() Error {
	return Error{
		Code:    fiber.StatusBadRequest,
		Message: "invalid id given",
	}
}

func ErrInvalidInput(msg string) Error {
	return Error{
		Code:    fiber.StatusBadRequest,
		Message: msg,
	}
}

func ErrNotFound(resource string) Error {
	return Error{
		Code:    fiber.StatusNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// ErrEmptyCorpus maps to 409: the request is fine, the store state is not.
func ErrEmptyCorpus() Error {
	return Error{
		Code:    fiber.StatusConflict,
		Message: "no documents ingested yet",
	}
}

func ErrUnavailable(msg string) Error {
	return Error{
		Code:    fiber.StatusServiceUnavailable,
		Message: msg,
	}
}
