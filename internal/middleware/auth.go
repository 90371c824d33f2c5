package middleware

import (
	"context"
	"strings"

	"github.com/phenobarbital/nav-rewards/internal/model"
	"github.com/phenobarbital/nav-rewards/pkg/errorx"
	"github.com/phenobarbital/nav-rewards/pkg/jwt"
	"github.com/phenobarbital/nav-rewards/pkg/router"
	"github.com/phenobarbital/nav-rewards/pkg/xcontext"
)

// Authenticate verifies the access token from the Authorization header or
// the token cookie and seeds the request user id into the context.
func Authenticate(engine *jwt.Engine[model.AccessToken]) router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		token := tokenFromRequest(ctx)
		if token == "" {
			return nil, errorx.New(errorx.Unauthenticated, "Not provided the access token")
		}

		accessToken, err := engine.Verify(token)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Cannot verify access token: %v", err)
			return nil, errorx.New(errorx.Unauthenticated, "Invalid access token")
		}

		return xcontext.WithRequestUserID(ctx, accessToken.ID), nil
	}
}

func tokenFromRequest(ctx context.Context) string {
	req := xcontext.HTTPRequest(ctx)

	authorization := req.Header.Get("Authorization")
	if authorization != "" {
		token, found := strings.CutPrefix(authorization, "Bearer ")
		if found {
			return token
		}
	}

	cookieName := xcontext.Configs(ctx).Auth.AccessTokenName
	if cookie, err := req.Cookie(cookieName); err == nil {
		return cookie.Value
	}

	return ""
}
