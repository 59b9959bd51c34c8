package serviceutils

import (
	"github.com/labstack/echo/v4"

	"github.com/rpxanalytics/portfolio-api/internal/logger"
)

// APIResponse is the uniform JSON envelope for non-file responses.
type APIResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ResponseSuccess writes a success envelope.
func ResponseSuccess(c echo.Context, code int, message string, data interface{}) error {
	return c.JSON(code, APIResponse{Message: message, Data: data})
}

// ResponseError logs the error and writes an error envelope. The raw
// error text is included for API consumers; these endpoints are
// internal-facing.
func ResponseError(c echo.Context, code int, message string, err error) error {
	logger.ErrorLog(c.Request().Context(), message, err)
	resp := APIResponse{Message: message}
	if err != nil {
		resp.Error = err.Error()
	}
	return c.JSON(code, resp)
}
