package v1

import (
	"errors"
	"io"
	"net/http"

	"github.com/finadvisor/backend/internal/budget"
	"github.com/finadvisor/backend/internal/chat"
	"github.com/finadvisor/backend/internal/models"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

var (
	ErrRequestBodyEmpty   = errors.New("the request body must not be empty")
	ErrRequestBodyInvalid = errors.New("the body of your request contains invalid or un-parseable data. Please check and try again")
	ErrInvalidUUID        = errors.New("the specified resource ID is not a valid UUID")
	ErrInvalidYear        = errors.New("the year parameter must be a four digit number")
	ErrInvalidMonths      = errors.New("the months parameter must be \"all\" or a comma-separated list of month numbers")
	ErrCredentials        = errors.New("the username or password is incorrect")
	ErrAuthRequired       = errors.New("a valid Bearer token is required")
)

type httpError struct {
	Error string `json:"error"`
}

func newError(c *gin.Context, status int, err error) {
	c.JSON(status, httpError{Error: err.Error()})
}

// status translates a service error into the HTTP status code.
// Storage errors are retryable and map to 503, recompute failures are
// consistency bugs and stay 500.
func status(err error) int {
	switch {
	case errors.Is(err, budget.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, budget.ErrNotFound), errors.Is(err, models.ErrResourceNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrUsernameTaken):
		return http.StatusConflict
	case errors.Is(err, budget.ErrStorage):
		return http.StatusServiceUnavailable
	case errors.Is(err, chat.ErrUpstream), errors.Is(err, chat.ErrNotConfigured):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func serviceError(c *gin.Context, err error) {
	code := status(err)
	if code >= http.StatusInternalServerError {
		log.Error().Str("request-id", requestid.Get(c)).Msg(err.Error())
	}

	newError(c, code, err)
}

// bindData binds the request body to the struct passed in.
func bindData(c *gin.Context, data any) error {
	if err := c.ShouldBindJSON(data); err != nil {
		if errors.Is(err, io.EOF) {
			newError(c, http.StatusBadRequest, ErrRequestBodyEmpty)
			return err
		}

		log.Debug().Str("request-id", requestid.Get(c)).Msgf("%T: %v", err, err)
		newError(c, http.StatusBadRequest, ErrRequestBodyInvalid)
		return err
	}

	return nil
}
