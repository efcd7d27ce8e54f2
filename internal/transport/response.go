package transport

import (
	"errors"

	"github.com/labstack/echo/v4"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
	Error   any    `json:"error"`
}

// Respond writes the envelope. Success follows the status class; err may
// be an error, a list of FieldError or nil.
func Respond(c echo.Context, code int, message string, data any, err any) error {
	return c.JSON(code, Envelope{
		Success: code >= 200 && code < 300,
		Message: message,
		Data:    data,
		Error:   errorBody(err),
	})
}

func errorBody(err any) any {
	switch v := err.(type) {
	case nil:
		return nil
	case error:
		var ve *ValidationError
		if errors.As(v, &ve) {
			return ve.Fields
		}
		return v.Error()
	default:
		return v
	}
}
