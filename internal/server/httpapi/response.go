package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/streamhive/streamhive/internal/common"
)

// apiResponse is the envelope every successful endpoint returns.
type apiResponse struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// apiError is the envelope for every failure.
type apiError struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Errors     []string `json:"errors"`
	Data       any      `json:"data"`
	Success    bool     `json:"success"`
}

func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, apiResponse{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    true,
	})
}

func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	if kind, ok := common.KindOf(err); ok {
		status = statusFromKind(kind)
		message = err.Error()
	}

	c.AbortWithStatusJSON(status, apiError{
		StatusCode: status,
		Message:    message,
		Errors:     []string{message},
		Data:       nil,
		Success:    false,
	})
}

func statusFromKind(kind common.Kind) int {
	switch kind {
	case common.KindValidation:
		return http.StatusBadRequest
	case common.KindConflict:
		return http.StatusConflict
	case common.KindNotFound:
		return http.StatusNotFound
	case common.KindAuth:
		return http.StatusUnauthorized
	default:
		// KindUpload, KindPersistence, and anything unclassified
		return http.StatusInternalServerError
	}
}
