package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cognigen/cognigen-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

type MessageEnvelope struct {
	Message string `json:"message"`
}

// RespondError writes the error envelope. Server side failures never expose
// the underlying error text.
func RespondError(c *gin.Context, status int, code string, err error) {
	msg := http.StatusText(status)
	if status < http.StatusInternalServerError && err != nil {
		msg = err.Error()
	}
	if msg == "" {
		msg = "unknown error"
	}
	if status >= http.StatusInternalServerError && err != nil {
		_ = c.Error(err)
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondErr classifies err through apierr and writes it.
func RespondErr(c *gin.Context, err error, fallbackCode string) {
	var ae *apierr.Error
	if !errors.As(err, &ae) {
		ae = apierr.From(err, fallbackCode)
	}
	RespondError(c, ae.Status, ae.Code, ae.Err)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

func RespondMessage(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, MessageEnvelope{Message: msg})
}
