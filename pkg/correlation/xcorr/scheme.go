package xcorr

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/omeyang/corrkit/pkg/observability/xlog"
)

// Correlator 关联引擎。
//
// 构造后不可变，可在任意多个并发请求间共享；
// 所有请求级状态都挂在各请求自己的 context 上。
type Correlator struct {
	opts Options
}

// New 创建关联引擎。
//
// 默认配置见 [DefaultOptions]。配置非法（未知协议）时返回包裹
// [ErrConfig] 的错误。
func New(opts ...Option) (*Correlator, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	o.normalize()
	if err := o.validate(); err != nil {
		return nil, err
	}
	return &Correlator{opts: o}, nil
}

// Options 返回引擎当前配置的副本。
func (c *Correlator) Options() Options {
	return c.opts
}

// CorrelateRequest 对一次入站请求执行关联：协议选择、标识提取/生成、
// 关联记录装配。
//
// h 是入站请求的头集合（大小写不敏感的 name -> values 映射）；
// nil 按空头集合处理并记录警告。traceIdentifier 是宿主层预先确定的
// 请求追踪标识（层级协议下非空时直接用作 operation ID），没有则传空串。
//
// 返回值：
//   - 新 context：每个成功路径都已写入装配好的 [Info]（以及 W3C 协议下的
//     追踪上下文与 baggage），调用方必须以它继续处理请求；
//   - [Result]：提取阶段的结构化结果。失败（如被禁止的事务头）不产生
//     error，由调用方决定如何响应客户端；
//   - error：仅在入参非法（ErrNilContext）或配置致命错误（ErrConfig）
//     时非 nil，此时 Result 无意义，请求处理必须中止。
func (c *Correlator) CorrelateRequest(ctx context.Context, h http.Header, traceIdentifier string) (context.Context, Result, error) {
	if ctx == nil {
		return nil, Result{}, ErrNilContext
	}
	if h == nil {
		xlog.Warn(ctx, "xcorr: no headers found on incoming request, using empty header set")
		h = http.Header{}
	}

	switch c.opts.Scheme {
	case SchemeHierarchical:
		return c.correlateHierarchical(ctx, h, traceIdentifier)
	case SchemeW3C:
		traceparent := strings.TrimSpace(h.Get(HeaderTraceparent))
		if IsW3CCompliant(traceparent) {
			return c.correlateW3CExistingParent(ctx, h, traceparent)
		}
		return c.correlateW3CNewParent(ctx, h)
	default:
		// New 已校验协议，此分支只在绕过构造函数时可达
		return ctx, Result{}, fmt.Errorf("%w: unknown correlation scheme %q", ErrConfig, string(c.opts.Scheme))
	}
}
