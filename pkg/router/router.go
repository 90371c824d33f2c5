package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/phenobarbital/nav-rewards/config"
	"github.com/phenobarbital/nav-rewards/pkg/errorx"
	"github.com/phenobarbital/nav-rewards/pkg/logger"
	"github.com/phenobarbital/nav-rewards/pkg/xcontext"
	"gorm.io/gorm"
)

// HandlerFunc is the signature of all domain operations exposed over HTTP.
type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before the handler. It can enrich the context or abort
// the request by returning an error.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

type Router struct {
	Inner gin.IRouter

	cfg         config.Configs
	logger      logger.Logger
	db          *gorm.DB
	middlewares []MiddlewareFunc
}

func New(db *gorm.DB, cfg config.Configs, l logger.Logger) *Router {
	gin.SetMode(gin.ReleaseMode)
	return &Router{
		Inner:  gin.New(),
		cfg:    cfg,
		logger: l,
		db:     db,
	}
}

// Branch returns a new router sharing the same route tree but with an
// independent middleware chain.
func (r *Router) Branch() *Router {
	branch := *r
	branch.middlewares = make([]MiddlewareFunc, len(r.middlewares))
	copy(branch.middlewares, r.middlewares)
	return &branch
}

// Group returns a router registering all its routes under the given prefix.
func (r *Router) Group(pattern string) *Router {
	group := r.Branch()
	group.Inner = r.Inner.Group(pattern)
	return group
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.middlewares = append(r.middlewares, middleware)
}

func (r *Router) Handler() http.Handler {
	return r.Inner.(*gin.Engine)
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.Inner.GET(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.Inner.POST(pattern, wrapHandler(r, http.MethodPost, handler))
}

func PUT[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.Inner.PUT(pattern, wrapHandler(r, http.MethodPut, handler))
}

func DELETE[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.Inner.DELETE(pattern, wrapHandler(r, http.MethodDelete, handler))
}

func wrapHandler[Request, Response any](
	r *Router,
	method string,
	handler HandlerFunc[Request, Response],
) gin.HandlerFunc {
	return func(ginCtx *gin.Context) {
		ctx := ginCtx.Request.Context()
		ctx = xcontext.WithConfigs(ctx, r.cfg)
		ctx = xcontext.WithLogger(ctx, r.logger)
		ctx = xcontext.WithDB(ctx, r.db)
		ctx = xcontext.WithHTTPRequest(ctx, ginCtx.Request)
		ctx = xcontext.WithHTTPWriter(ctx, ginCtx.Writer)

		for _, middleware := range r.middlewares {
			newCtx, err := middleware(ctx)
			if err != nil {
				writeError(ginCtx, err)
				return
			}
			ctx = newCtx
		}

		var req Request
		if len(ginCtx.Params) > 0 {
			if err := ginCtx.ShouldBindUri(&req); err != nil {
				writeError(ginCtx, errorx.New(errorx.BadRequest, "Cannot bind the request"))
				return
			}
		}

		var err error
		switch method {
		case http.MethodGet, http.MethodDelete:
			err = ginCtx.ShouldBindQuery(&req)
		default:
			if ginCtx.Request.ContentLength > 0 {
				err = ginCtx.ShouldBindJSON(&req)
			}
		}
		if err != nil {
			writeError(ginCtx, errorx.New(errorx.BadRequest, "Cannot bind the request"))
			return
		}

		resp, err := handler(ctx, &req)
		if err != nil {
			writeError(ginCtx, err)
			return
		}

		writeSuccess(ginCtx, resp)
	}
}
