package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "storefront/internal/log"
)

const problemContentType = "application/problem+json"

// Problem is the RFC 7807 error body the storefront client reads its
// message from.
type Problem struct {
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func problem(c *fiber.Ctx, status int, title, detail string) error {
	if err := c.Status(status).JSON(Problem{Title: title, Status: status, Detail: detail}); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, problemContentType)
	return nil
}

// ErrorHandler answers errors that escaped the handlers. fiber errors keep
// their status; anything else is logged and hidden behind a generic 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return problem(c, fe.Code, fe.Message, "")
	}
	applog.Error(c, "server.error", err, nil)
	return problem(c, fiber.StatusInternalServerError, "Something went wrong. Please try again.", "")
}
