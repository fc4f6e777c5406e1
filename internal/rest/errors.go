package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/Go-Clean-Architecture-Novel/domain"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message   string `json:"message"`
	Param     string `json:"param,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
}

// getStatusCode will get the code of the error returned by the usecases
func getStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidQuery), errors.Is(err, domain.ErrBadParamInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrTooManyRequests):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, domain.ErrTransient), errors.Is(err, domain.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func newResponseError(err error) ResponseError {
	res := ResponseError{Message: err.Error(), Retryable: domain.IsRetryable(err)}
	var qerr *domain.InvalidQueryError
	if errors.As(err, &qerr) {
		res.Param = qerr.Param
	}
	return res
}

func respondError(c *gin.Context, err error) {
	code := getStatusCode(err)
	if code >= http.StatusInternalServerError {
		logrus.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(code, newResponseError(err))
}
