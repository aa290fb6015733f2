package xcorr

import (
	"net/http"

	"github.com/omeyang/corrkit/pkg/observability/xlog"
)

// =============================================================================
// HTTP 中间件
// =============================================================================

// MiddlewareOption 中间件选项。
type MiddlewareOption func(*middlewareConfig)

type middlewareConfig struct {
	failureHandler  func(w http.ResponseWriter, r *http.Request, res Result)
	traceIdentifier func(r *http.Request) string
}

// WithFailureHandler 设置关联失败（提取失败，如被禁止的事务头）时的
// 响应处理函数。默认返回 400 与失败原因文本。
func WithFailureHandler(fn func(w http.ResponseWriter, r *http.Request, res Result)) MiddlewareOption {
	return func(cfg *middlewareConfig) {
		if fn != nil {
			cfg.failureHandler = fn
		}
	}
}

// WithTraceIdentifier 设置从请求提取宿主层追踪标识的函数。
// 返回的非空值在层级协议下直接用作 operation ID。默认不提供。
func WithTraceIdentifier(fn func(r *http.Request) string) MiddlewareOption {
	return func(cfg *middlewareConfig) {
		if fn != nil {
			cfg.traceIdentifier = fn
		}
	}
}

// HTTPMiddleware 返回 net/http 中间件，将关联引擎接入请求管线。
//
// 每个请求依次执行：关联（CorrelateRequest）、失败时交给失败处理函数、
// 成功时回写响应头（SetResponseHeaders）并以携带关联记录的 context
// 继续调用下游 handler。配置/入参级错误返回 500，提取失败默认返回 400。
func HTTPMiddleware(c *Correlator, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := &middlewareConfig{
		failureHandler: func(w http.ResponseWriter, r *http.Request, res Result) {
			http.Error(w, res.ErrorMessage, http.StatusBadRequest)
		},
		traceIdentifier: func(*http.Request) string { return "" },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, res, err := c.CorrelateRequest(r.Context(), r.Header, cfg.traceIdentifier(r))
			if err != nil {
				// 配置错误属于部署问题，不暴露细节给客户端
				xlog.Error(r.Context(), "xcorr: request correlation aborted", xlog.Err(err))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			if !res.Success {
				cfg.failureHandler(w, r, res)
				return
			}

			if err := c.SetResponseHeaders(ctx, func(name, value string) {
				w.Header().Set(name, value)
			}, res); err != nil {
				xlog.Warn(ctx, "xcorr: failed to set correlation response headers", xlog.Err(err))
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
