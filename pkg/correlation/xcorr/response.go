package xcorr

import (
	"context"
	"log/slog"

	"github.com/omeyang/corrkit/pkg/context/xctx"
	"github.com/omeyang/corrkit/pkg/observability/xlog"
)

// HeaderWriter 向出站响应写入单个头的能力，由宿主注入。
type HeaderWriter func(name, value string)

// SetResponseHeaders 按配置将关联标识回写到响应头。
//
// 从 ctx 读取 CorrelateRequest 存储的关联记录，对三类标识独立处理：
//
//   - operation ID：配置开启且记录中非空时写入 operation 头；
//   - 上游标识：配置开启且 res.RequestID 非空时写入——层级协议下用
//     配置的上游头名称，W3C 协议下固定用字面量 "traceparent"；
//     W3C 且 RequestID 为空（新链路）时，从存储的追踪上下文直接推导
//     出站 traceparent；
//   - transaction ID：配置开启且记录中非空时写入事务头。
//
// 任何一类标识缺失都只是跳过该头并记录诊断日志，不会使整个操作失败；
// 没有头会被写入两次。仅入参非法时返回错误：nil ctx 返回
// ErrNilContext，nil write 返回 ErrNilHeaderWriter。
func (c *Correlator) SetResponseHeaders(ctx context.Context, write HeaderWriter, res Result) error {
	if ctx == nil {
		return ErrNilContext
	}
	if write == nil {
		return ErrNilHeaderWriter
	}

	info, ok := xctx.CorrelationFrom(ctx)
	if !ok {
		xlog.Debug(ctx, "xcorr: no correlation stored in context, response headers limited to upstream echo")
	}

	if c.opts.Operation.IncludeInResponse {
		if info.OperationID != "" {
			write(c.opts.Operation.HeaderName, info.OperationID)
		} else {
			xlog.Debug(ctx, "xcorr: operation id unavailable, skipping response header",
				slog.String("header", c.opts.Operation.HeaderName))
		}
	}

	if c.opts.UpstreamService.IncludeInResponse {
		c.writeUpstreamHeader(ctx, write, res)
	}

	if c.opts.Transaction.IncludeInResponse {
		if info.TransactionID != "" {
			write(c.opts.Transaction.HeaderName, info.TransactionID)
		} else {
			xlog.Debug(ctx, "xcorr: transaction id unavailable, skipping response header",
				slog.String("header", c.opts.Transaction.HeaderName))
		}
	}

	return nil
}

// writeUpstreamHeader 写入上游标识头。
//
// 头名称由激活协议决定：层级协议用配置的上游头名称，
// W3C 协议固定为 "traceparent"。
func (c *Correlator) writeUpstreamHeader(ctx context.Context, write HeaderWriter, res Result) {
	name := c.opts.UpstreamService.HeaderName
	value := res.RequestID

	if c.opts.Scheme == SchemeW3C {
		name = HeaderTraceparent
		if value == "" {
			// 新链路没有入站 traceparent 可回显，从存储的追踪上下文推导
			if trace, ok := xctx.TraceFrom(ctx); ok {
				value = formatTraceparent(trace)
			}
		}
	}

	if value == "" {
		xlog.Debug(ctx, "xcorr: upstream identifier unavailable, skipping response header",
			slog.String("header", name))
		return
	}
	write(name, value)
}
