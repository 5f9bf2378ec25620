package seoblog

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
)

type ApiError struct {
	Status    int    `json:"-"`
	ErrorCode string `json:"error_code"`
	Message   string `json:"error"`
}

// New returns a copy of e with Message used as a printf template.
func (e ApiError) New(messages ...string) ApiError {
	args := make([]any, len(messages))
	for i, msg := range messages {
		args[i] = msg
	}

	message := fmt.Sprintf(e.Message, args...)
	return ApiError{
		Status:    e.Status,
		ErrorCode: e.ErrorCode,
		Message:   message,
	}
}

// WithMessage returns a copy of e carrying a literal message.
func (e ApiError) WithMessage(message string) ApiError {
	e.Message = message
	return e
}

func (e ApiError) Error() string {
	return fmt.Sprintf("%s: %s", e.ErrorCode, e.Message)
}

func (e ApiError) status() int {
	if e.Status == 0 {
		return http.StatusBadRequest
	}
	return e.Status
}

var (
	ErrBadRequest      = ApiError{Status: http.StatusBadRequest, ErrorCode: "BAD_REQUEST", Message: "%s"}
	ErrValidation      = ApiError{Status: http.StatusUnprocessableEntity, ErrorCode: "VALIDATION_FAILED", Message: "%s"}
	ErrUnauthorized    = ApiError{Status: http.StatusUnauthorized, ErrorCode: "UNAUTHORIZED", Message: "%s"}
	ErrForbidden       = ApiError{Status: http.StatusForbidden, ErrorCode: "FORBIDDEN", Message: "%s"}
	ErrNotFound        = ApiError{Status: http.StatusNotFound, ErrorCode: "NOT_FOUND", Message: "%s not found"}
	ErrAlreadyExists   = ApiError{Status: http.StatusBadRequest, ErrorCode: "ALREADY_EXISTS", Message: "%s already exists"}
	ErrTooManyRequests = ApiError{Status: http.StatusTooManyRequests, ErrorCode: "TOO_MANY_REQUESTS", Message: "%s"}
	ErrUnavailable     = ApiError{Status: http.StatusServiceUnavailable, ErrorCode: "UNAVAILABLE", Message: "%s"}
	ErrInternal        = ApiError{Status: http.StatusInternalServerError, ErrorCode: "INTERNAL_ERROR", Message: "Something went wrong"}
)

type ErrorResponse struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"error"`
}

// duplicate key messages look like
// "E11000 duplicate key error collection: db.users index: email_1 dup key: ..."
var duplicateIndexPattern = regexp.MustCompile(`(?:index: |\.\$)([A-Za-z0-9]+)_1`)

// TranslateError maps storage errors onto ApiError values. Errors that are
// already an ApiError pass through unchanged.
func TranslateError(err error, resource string) error {
	if err == nil {
		return nil
	}
	var apiErr ApiError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		if resource == "" {
			resource = "Resource"
		}
		return ErrNotFound.New(resource)
	}
	if mongo.IsDuplicateKeyError(err) {
		if field := duplicateField(err.Error()); field != "" {
			return ErrAlreadyExists.New(field)
		}
	}
	return err
}

func duplicateField(message string) string {
	match := duplicateIndexPattern.FindStringSubmatch(message)
	if len(match) < 2 {
		return ""
	}
	field := match[1]
	return strings.ToUpper(field[:1]) + field[1:]
}

func SendError(c *gin.Context, err error) {
	err = TranslateError(err, "")
	var customErr ApiError
	if errors.As(err, &customErr) {
		if customErr.status() >= http.StatusInternalServerError {
			log.Error().Str("path", c.FullPath()).Msg(customErr.Message)
		}
		c.AbortWithStatusJSON(customErr.status(), ErrorResponse{
			ErrorCode: customErr.ErrorCode,
			Message:   customErr.Message,
		})
		return
	}
	log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
		ErrorCode: ErrInternal.ErrorCode,
		Message:   ErrInternal.Message,
	})
}
