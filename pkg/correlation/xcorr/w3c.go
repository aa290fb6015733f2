package xcorr

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/omeyang/corrkit/pkg/context/xctx"
	"github.com/omeyang/corrkit/pkg/observability/xlog"
)

// =============================================================================
// W3C Trace Context 头常量
// =============================================================================

// W3C Trace Context 相关头名称。
const (
	// HeaderTraceparent W3C traceparent 头，
	// 格式 {version}-{trace-id}-{parent-id}-{trace-flags}
	HeaderTraceparent = "traceparent"

	// HeaderTracestate W3C tracestate 头，内容不解析，仅透传
	HeaderTracestate = "tracestate"

	// HeaderCorrelationContext 遗留的 baggage 头，
	// 逗号分隔的 key=value 对
	HeaderCorrelationContext = "Correlation-Context"
)

// traceparent 固定布局：VV-{32 hex}-{16 hex}-{2 hex} = 55 字符。
const (
	traceparentLen = 55

	traceIDStart = 3
	traceIDEnd   = 35
	spanIDStart  = 36
	spanIDEnd    = 52
	flagsStart   = 53
)

// Correlation-Context 条目的长度上限。
const (
	maxBaggageKeyLen   = 50
	maxBaggageValueLen = 1024
)

// =============================================================================
// traceparent 校验
// =============================================================================

// IsW3CCompliant 判断 traceparent 值是否符合入站合规门槛。
//
// 检查项：总长恰好 55 字符；版本字段（前 2 字符）为十六进制；
// 版本不等于保留值 "ff"。任何不合规的值按"缺失"处理（开启新链路），
// 而非按错误处理。
//
// 设计决策: 入站门槛只做以上三项检查，后续字段按固定布局切片、
// 不逐字符校验，与主流 APM 代理对入站头的宽容处理一致。
// 出站格式化（formatTraceparent）才执行严格校验。
func IsW3CCompliant(traceparent string) bool {
	if len(traceparent) != traceparentLen {
		return false
	}
	if !isHexChar(traceparent[0]) || !isHexChar(traceparent[1]) {
		return false
	}
	// 版本 "ff" 保留，始终无效
	return !(traceparent[0] == 'f' && traceparent[1] == 'f')
}

// isHexChar 判断单字符是否为 [0-9a-f]。
// W3C 规范要求小写，入站门槛同样只接受小写。
func isHexChar(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')
}

// isLowerHex 判断字符串是否全部为 [0-9a-f]。
func isLowerHex(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isHexChar(s[i]) {
			return false
		}
	}
	return true
}

// =============================================================================
// W3C 延续既有链路
// =============================================================================

// correlateW3CExistingParent 处理携带合规 traceparent 的请求。
//
// 按固定布局解析 trace-id（transaction ID）与 parent span-id，
// 为本跳生成新 span-id 作为 operation ID；父子链接关系为
// (trace-id, parent span-id) -> 新 span-id。
// 原始 traceparent 串进入 Result.RequestID，供响应逐字节回显。
func (c *Correlator) correlateW3CExistingParent(ctx context.Context, h http.Header, traceparent string) (context.Context, Result, error) {
	transactionID := traceparent[traceIDStart:traceIDEnd]
	parentID := traceparent[spanIDStart:spanIDEnd]
	operationID := xctx.GenerateSpanID()

	trace := xctx.Trace{
		TraceID:    transactionID,
		SpanID:     operationID,
		TraceFlags: traceparent[flagsStart:],
		TraceState: strings.TrimSpace(h.Get(HeaderTracestate)),
	}

	ctx, err := c.store(ctx, Info{
		OperationID:       operationID,
		TransactionID:     transactionID,
		OperationParentID: parentID,
	}, trace)
	if err != nil {
		return ctx, Result{}, err
	}

	xlog.Debug(ctx, "xcorr: continuing trace from upstream traceparent",
		slog.String("traceparent", traceparent))
	return ctx, success(traceparent), nil
}

// =============================================================================
// W3C 开启新链路
// =============================================================================

// correlateW3CNewParent 处理没有合规 traceparent 的请求。
//
// 生成全新的 16 字节 trace-id 与 8 字节 span-id（crypto/rand，
// 不由任何输入推导）。如果调用方 context 中已有追踪上下文，
// 其 tracestate 被带入新链路；如果尚无 baggage，则解析遗留的
// Correlation-Context 头补全。operation parent ID 保持缺失，
// Result.RequestID 为空——响应回写时由存储的 trace/span 直接推导
// 出站 traceparent。
func (c *Correlator) correlateW3CNewParent(ctx context.Context, h http.Header) (context.Context, Result, error) {
	traceID := xctx.GenerateTraceID()
	spanID := xctx.GenerateSpanID()

	trace := xctx.Trace{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: "00",
	}
	// 同进程内已有的追踪状态随新链路继续传播
	if ambient, ok := xctx.TraceFrom(ctx); ok {
		trace.TraceState = ambient.TraceState
	}

	if len(xctx.BaggageFrom(ctx)) == 0 {
		if bag := parseCorrelationContext(h.Get(HeaderCorrelationContext)); len(bag) > 0 {
			var err error
			ctx, err = xctx.WithBaggage(ctx, bag)
			if err != nil {
				return ctx, Result{}, err
			}
		}
	}

	ctx, err := c.store(ctx, Info{
		OperationID:   spanID,
		TransactionID: traceID,
	}, trace)
	if err != nil {
		return ctx, Result{}, err
	}

	xlog.Debug(ctx, "xcorr: started new trace",
		slog.String(xctx.KeyTransactionID, traceID),
		slog.String(xctx.KeyOperationID, spanID))
	return ctx, success(""), nil
}

// store 将关联记录与追踪上下文写入 context。
func (c *Correlator) store(ctx context.Context, info Info, trace xctx.Trace) (context.Context, error) {
	ctx, err := xctx.WithCorrelation(ctx, info)
	if err != nil {
		return ctx, err
	}
	return xctx.WithTrace(ctx, trace)
}

// =============================================================================
// Correlation-Context 解析
// =============================================================================

// parseCorrelationContext 解析遗留的 Correlation-Context 头。
//
// 格式：逗号分隔的 key=value 对。只接受恰好包含一个 '=' 的条目；
// key 截断到 50 字符、value 截断到 1024 字符后去除首尾空白。
// 截断后 key 为空的条目被丢弃。
func parseCorrelationContext(value string) xctx.Baggage {
	if value == "" {
		return nil
	}

	pairs := strings.Split(value, ",")
	bag := make(xctx.Baggage, 0, len(pairs))
	for _, pair := range pairs {
		if strings.Count(pair, "=") != 1 {
			continue
		}
		key, val, _ := strings.Cut(pair, "=")
		key = strings.TrimSpace(truncate(key, maxBaggageKeyLen))
		val = strings.TrimSpace(truncate(val, maxBaggageValueLen))
		if key == "" {
			continue
		}
		bag = append(bag, xctx.BaggageMember{Key: key, Value: val})
	}
	if len(bag) == 0 {
		return nil
	}
	return bag
}

// truncate 截断字符串到最多 n 字节。
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// =============================================================================
// 出站 traceparent 格式化
// =============================================================================

// formatTraceparent 从追踪上下文生成 W3C traceparent。
//
// 仅在 trace-id / span-id 均为合法小写十六进制时生成；
// trace-flags 非法或为空时回退到 "00"（未采样）。
// 使用固定大小的字节数组减少内存分配。
func formatTraceparent(trace xctx.Trace) string {
	if len(trace.TraceID) != 2*xctx.TraceIDSize || !isLowerHex(trace.TraceID) {
		return ""
	}
	if len(trace.SpanID) != 2*xctx.SpanIDSize || !isLowerHex(trace.SpanID) {
		return ""
	}
	flags := trace.TraceFlags
	if len(flags) != 2 || !isLowerHex(flags) {
		flags = "00"
	}

	var buf [traceparentLen]byte
	copy(buf[0:3], "00-")
	copy(buf[traceIDStart:traceIDEnd], trace.TraceID)
	buf[traceIDEnd] = '-'
	copy(buf[spanIDStart:spanIDEnd], trace.SpanID)
	buf[spanIDEnd] = '-'
	copy(buf[flagsStart:], flags)
	return string(buf[:])
}
