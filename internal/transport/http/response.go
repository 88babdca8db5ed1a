package httptransport

import (
	stderrors "errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"voiceguard-server-go/internal/platform/errors"
)

// APIError is the uniform failure payload. The category names the error kind
// so callers can see which pipeline stage rejected the request; internal
// details never leak past the message.
type APIError struct {
	Error      string `json:"error"`
	Category   string `json:"category"`
	StatusCode int    `json:"status_code"`
	Timestamp  string `json:"timestamp"`
}

// RespondError translates a typed error into the matching HTTP status.
func RespondError(c *gin.Context, err error) {
	kind := errors.KindOf(err)
	status := StatusFromKind(kind)

	message := publicMessage(err, kind)

	c.JSON(status, APIError{
		Error:      message,
		Category:   string(kind),
		StatusCode: status,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	})
}

// StatusFromKind maps error kinds to HTTP statuses.
func StatusFromKind(kind errors.Kind) int {
	switch kind {
	case errors.KindAuth:
		return http.StatusUnauthorized
	case errors.KindDecode, errors.KindFormat, errors.KindLanguage, errors.KindTransport:
		return http.StatusBadRequest
	case errors.KindPayload:
		return http.StatusRequestEntityTooLarge
	case errors.KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage keeps server-side failures opaque while surfacing the
// message for client-caused rejections.
func publicMessage(err error, kind errors.Kind) string {
	switch kind {
	case errors.KindAuth, errors.KindDecode, errors.KindFormat,
		errors.KindLanguage, errors.KindPayload, errors.KindTimeout,
		errors.KindTransport:
		var typed *errors.Error
		if stderrors.As(err, &typed) {
			return typed.Message
		}
		return err.Error()
	default:
		return "internal server error"
	}
}
