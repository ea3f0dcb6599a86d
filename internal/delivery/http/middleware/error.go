package middleware

import (
	"errors"
	"log"

	"carenet/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

// AppError is the error handlers return to choose a status and a client-facing message.
// Cause is logged for 5xx responses and never rendered.
type AppError struct {
	StatusCode int
	Message    string
	Data       any
	Cause      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func NewAppError(statusCode int, message string, data any, cause error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Data: data, Cause: cause}
}

// ErrorMiddleware renders every handler error, and any panic, as the JSON envelope.
type ErrorMiddleware struct {
	logger *log.Logger
}

func NewErrorMiddleware(logger *log.Logger) *ErrorMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	return &ErrorMiddleware{logger: logger}
}

func (m *ErrorMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				m.logger.Printf("HTTP panic recovered | rid=%s method=%s path=%s panic=%v", RequestID(c), c.Method(), c.Path(), r)
				err = response.Error(c, fiber.StatusInternalServerError, response.MessageInternalServerError, nil)
			}
		}()

		if err = c.Next(); err == nil {
			return nil
		}

		appErr := asAppError(err)
		if appErr.StatusCode >= 500 {
			user := "-"
			if id, ok := UserID(c); ok {
				user = id.String()
			}
			m.logger.Printf("HTTP request failed | rid=%s method=%s path=%s user_id=%s error=%v", RequestID(c), c.Method(), c.Path(), user, err)
			return response.Error(c, appErr.StatusCode, response.DefaultMessage(appErr.StatusCode), nil)
		}
		return response.Error(c, appErr.StatusCode, appErr.Message, appErr.Data)
	}
}

// asAppError folds fiber errors and unknown errors into an AppError with a usable status and
// message.
func asAppError(err error) *AppError {
	out := &AppError{StatusCode: fiber.StatusInternalServerError, Cause: err}

	var appErr *AppError
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &appErr):
		out.StatusCode, out.Message, out.Data = appErr.StatusCode, appErr.Message, appErr.Data
	case errors.As(err, &fiberErr):
		out.StatusCode, out.Message = fiberErr.Code, fiberErr.Message
	}

	if out.StatusCode <= 0 {
		out.StatusCode = fiber.StatusInternalServerError
	}
	if out.Message == "" {
		out.Message = response.DefaultMessage(out.StatusCode)
	}
	return out
}
