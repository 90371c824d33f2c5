package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/phenobarbital/nav-rewards/pkg/errorx"
)

type response struct {
	Code  int64  `json:"code"`
	Error string `json:"error,omitempty"`
	Data  any    `json:"data,omitempty"`
}

func writeSuccess(ginCtx *gin.Context, data any) {
	status := http.StatusOK
	if ginCtx.Request.Method == http.MethodPost {
		status = http.StatusCreated
	}

	ginCtx.JSON(status, response{Code: 0, Data: data})
}

func writeError(ginCtx *gin.Context, err error) {
	errx := errorx.Error{}
	if !errors.As(err, &errx) {
		errx = errorx.Unknown
	}

	ginCtx.AbortWithStatusJSON(httpStatus(errx.Code), response{
		Code:  int64(errx.Code),
		Error: errx.Message,
	})
}

func httpStatus(code errorx.Code) int {
	switch code {
	case errorx.BadRequest:
		return http.StatusBadRequest
	case errorx.Unauthenticated:
		return http.StatusUnauthorized
	case errorx.PermissionDenied:
		return http.StatusForbidden
	case errorx.NotFound:
		return http.StatusNotFound
	case errorx.AlreadyExists:
		return http.StatusConflict
	case errorx.TooManyRequests:
		return http.StatusTooManyRequests
	case errorx.Unavailable:
		return http.StatusBadRequest
	case errorx.NotImplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
