package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var errInternal = errors.New("internal server error")

type Err struct {
	HTTPStatusCode int    `json:"-"`
	Err            error  `json:"-"`
	StatusText     string `json:"status"`
	ErrorText      string `json:"error,omitempty"`
}

func (e *Err) Error() string {
	return e.ErrorText
}

func newErr(code int, err error) *Err {
	text := ""
	if err != nil {
		text = err.Error()
	}

	return &Err{
		HTTPStatusCode: code,
		Err:            err,
		StatusText:     http.StatusText(code),
		ErrorText:      text,
	}
}

// RenderErr writes e as JSON and aborts the chain. Server faults are logged
// here and their detail is kept out of the body.
func RenderErr(ctx *gin.Context, e *Err) {
	if e.HTTPStatusCode >= http.StatusInternalServerError {
		zap.L().Error(e.StatusText,
			zap.Error(e.Err),
			zap.String("requestID", requestid.Get(ctx)),
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.FullPath()),
		)

		if gin.Mode() == gin.ReleaseMode {
			e = newErr(e.HTTPStatusCode, errInternal)
		}
	}

	ctx.AbortWithStatusJSON(e.HTTPStatusCode, e)
}

func ErrBadRequest(err error) *Err {
	return newErr(http.StatusBadRequest, err)
}

func ErrInvalidID(param, value string) *Err {
	return newErr(http.StatusBadRequest, fmt.Errorf("%s %q is not a valid id", param, value))
}

func ErrUnauthorized(err error) *Err {
	return newErr(http.StatusUnauthorized, err)
}

func ErrWrongCredentials(err error) *Err {
	return newErr(http.StatusUnauthorized, errors.New("wrong email or password"))
}

func ErrPermissionDenied(err error) *Err {
	return newErr(http.StatusForbidden, err)
}

func ErrNotFound(resource, key string, value any) *Err {
	return newErr(http.StatusNotFound, fmt.Errorf("%s with %s %v not found", resource, key, value))
}

func ErrResourceNotFound(err error) *Err {
	return newErr(http.StatusNotFound, err)
}

func ErrConflict(err error) *Err {
	return newErr(http.StatusConflict, err)
}

func ErrRequestTooLarge(err error) *Err {
	return newErr(http.StatusRequestEntityTooLarge, err)
}

func ErrServiceUnavailable(err error) *Err {
	return newErr(http.StatusServiceUnavailable, err)
}

func ErrInternalServerError(err error) *Err {
	return newErr(http.StatusInternalServerError, err)
}
