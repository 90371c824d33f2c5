package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phenobarbital/nav-rewards/config"
	"github.com/phenobarbital/nav-rewards/pkg/errorx"
	"github.com/phenobarbital/nav-rewards/pkg/logger"
	"github.com/stretchr/testify/require"
)

func Test_httpStatus(t *testing.T) {
	require.Equal(t, http.StatusBadRequest, httpStatus(errorx.BadRequest))
	require.Equal(t, http.StatusUnauthorized, httpStatus(errorx.Unauthenticated))
	require.Equal(t, http.StatusForbidden, httpStatus(errorx.PermissionDenied))
	require.Equal(t, http.StatusNotFound, httpStatus(errorx.NotFound))
	require.Equal(t, http.StatusConflict, httpStatus(errorx.AlreadyExists))
	require.Equal(t, http.StatusTooManyRequests, httpStatus(errorx.TooManyRequests))
	require.Equal(t, http.StatusInternalServerError, httpStatus(errorx.Internal))
	require.Equal(t, http.StatusInternalServerError, httpStatus(errorx.Unknown.Code))
}

// Business rejections are raised as Unavailable. They are client errors, not
// server outages, and must answer 400.
func Test_httpStatus_unavailableIsBadRequest(t *testing.T) {
	require.Equal(t, http.StatusBadRequest, httpStatus(errorx.Unavailable))

	r := New(nil, config.Configs{}, logger.NewLogger(logger.SILENCE))
	POST[struct{}, struct{}](r, "/buy",
		func(ctx context.Context, req *struct{}) (*struct{}, error) {
			return nil, errorx.New(errorx.Unavailable, "Prize is out of stock")
		})

	req := httptest.NewRequest(http.MethodPost, "/buy", nil)
	resp := httptest.NewRecorder()
	r.Handler().ServeHTTP(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Contains(t, resp.Body.String(), "Prize is out of stock")
}
