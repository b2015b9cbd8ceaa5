// FILE: internal/http/validator.go
package http

import (
	"fmt"
	"reflect"
	"strings"

	"tilechess/internal/core"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var validate = validator.New()

// validationMiddleware parses and validates request bodies by route
func validationMiddleware(c *fiber.Ctx) error {
	method := c.Method()
	if method == fiber.MethodGet || method == fiber.MethodDelete || method == fiber.MethodOptions {
		return c.Next()
	}

	path := c.Path()
	var requestType any

	switch {
	case strings.HasSuffix(path, "/games") && method == fiber.MethodPost:
		requestType = &core.CreateGameRequest{}
	case strings.HasSuffix(path, "/moves") && method == fiber.MethodPost:
		requestType = &core.MoveRequest{}
	case strings.HasSuffix(path, "/undo") && method == fiber.MethodPost:
		requestType = &core.UndoRequest{}
	default:
		return c.Next()
	}

	// An empty body is a valid create request
	if len(c.Body()) > 0 {
		if err := c.BodyParser(requestType); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
				Error:   "invalid request body",
				Code:    core.ErrInvalidRequest,
				Details: err.Error(),
			})
		}
	}

	if err := validate.Struct(requestType); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "validation failed",
			Code:    core.ErrInvalidRequest,
			Details: describeValidation(err),
		})
	}

	c.Locals("validatedBody", requestType)
	c.Locals("validated", true)

	return c.Next()
}

// describeValidation turns validator errors into a single readable line
func describeValidation(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	var details strings.Builder
	for _, e := range errs {
		if details.Len() > 0 {
			details.WriteString("; ")
		}
		switch e.Tag() {
		case "required":
			details.WriteString(fmt.Sprintf("%s is required", e.Field()))
		case "len":
			details.WriteString(fmt.Sprintf("%s must be %s characters", e.Field(), e.Param()))
		case "min":
			if e.Type().Kind() == reflect.String {
				details.WriteString(fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param()))
			} else {
				details.WriteString(fmt.Sprintf("%s must be at least %s", e.Field(), e.Param()))
			}
		case "max":
			if e.Type().Kind() == reflect.String {
				details.WriteString(fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param()))
			} else {
				details.WriteString(fmt.Sprintf("%s must be at most %s", e.Field(), e.Param()))
			}
		default:
			details.WriteString(fmt.Sprintf("%s failed %s validation", e.Field(), e.Tag()))
		}
	}
	return details.String()
}

// validatedBody fetches the body stored by validationMiddleware
func validatedBody[T any](c *fiber.Ctx) (*T, error) {
	validated, ok := c.Locals("validated").(bool)
	if !ok || !validated {
		return nil, fmt.Errorf("validation bypass detected")
	}
	body, ok := c.Locals("validatedBody").(*T)
	if !ok || body == nil {
		return nil, fmt.Errorf("validation data missing")
	}
	return body, nil
}

func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
