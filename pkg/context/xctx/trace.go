package xctx

import (
	"context"
	"crypto/rand"
	"encoding/hex"
)

// =============================================================================
// ID 格式常量（遵循 W3C Trace Context 规范）
// =============================================================================

const (
	// TraceIDSize W3C 规范: 128-bit (16 bytes) -> 32 hex chars
	TraceIDSize = 16

	// SpanIDSize W3C 规范: 64-bit (8 bytes) -> 16 hex chars
	SpanIDSize = 8
)

// =============================================================================
// Trace 环境追踪上下文
// =============================================================================

// Trace 进程内的当前追踪上下文。
//
// 即"当前活动 span"的概念，这里作为显式 context 值传递而非全局状态。
// TraceState 保存上游 tracestate 头的原始值，corrkit 不解析其内容，
// 仅在同进程内透传。
type Trace struct {
	TraceID    string
	SpanID     string
	TraceFlags string // W3C trace-flags（如 "01" 表示已采样）
	TraceState string // 上游 tracestate 原始值，透传
}

// IsZero 判断追踪上下文是否为空。
func (t Trace) IsZero() bool {
	return t.TraceID == "" && t.SpanID == "" && t.TraceFlags == "" && t.TraceState == ""
}

// WithTrace 将追踪上下文注入 context。
// 如果 ctx 为 nil，返回 ErrNilContext。
func WithTrace(ctx context.Context, t Trace) (context.Context, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	return context.WithValue(ctx, keyTrace, t), nil
}

// TraceFrom 从 context 提取追踪上下文。
// 第二个返回值表示是否存在。
func TraceFrom(ctx context.Context) (Trace, bool) {
	if ctx == nil {
		return Trace{}, false
	}
	if v, ok := ctx.Value(keyTrace).(Trace); ok {
		return v, true
	}
	return Trace{}, false
}

// =============================================================================
// Baggage 键值对
// =============================================================================

// BaggageMember baggage 中的一个键值对。
type BaggageMember struct {
	Key   string
	Value string
}

// Baggage 有序的键值对集合，随请求在进程内传播。
//
// 设计决策: 使用切片而非 map，保留上游 Correlation-Context 头中的键序，
// 并允许同键多值（W3C Baggage 规范同样不要求键唯一）。
type Baggage []BaggageMember

// WithBaggage 将 baggage 注入 context。
// 如果 ctx 为 nil，返回 ErrNilContext。
func WithBaggage(ctx context.Context, b Baggage) (context.Context, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	return context.WithValue(ctx, keyBaggage, b), nil
}

// BaggageFrom 从 context 提取 baggage，不存在返回 nil。
//
// 返回的切片与 context 中存储的是同一底层数组，调用方不应修改。
func BaggageFrom(ctx context.Context) Baggage {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(keyBaggage).(Baggage); ok {
		return v
	}
	return nil
}

// =============================================================================
// ID 生成函数（遵循 W3C Trace Context 规范）
// 参考: https://www.w3.org/TR/trace-context/
// =============================================================================

// isAllZeros 检查字节切片是否全为零。
// W3C Trace Context 规范禁止全零的 trace-id 和 span-id。
func isAllZeros(buf []byte) bool {
	for _, b := range buf {
		if b != 0 {
			return false
		}
	}
	return true
}

// GenerateTraceID 生成符合 W3C Trace Context 规范的 TraceID。
//
// 格式: 32位小写十六进制字符串 (128-bit)
// 示例: "0af7651916cd43dd8448eb211c80319c"
// 使用 crypto/rand 保证随机性；全零结果（概率 2^-128）会重新生成。
//
// Panic 策略说明：如果底层熵源不可用（极罕见的系统级错误），函数会 panic。
// crypto/rand 失败意味着系统无法提供安全随机数，服务在此状态下应立即终止，
// 而非静默降级。
func GenerateTraceID() string {
	var buf [TraceIDSize]byte
	for {
		if _, err := rand.Read(buf[:]); err != nil {
			panic("xctx: crypto/rand.Read failed: " + err.Error())
		}
		if !isAllZeros(buf[:]) {
			return hex.EncodeToString(buf[:])
		}
	}
}

// GenerateSpanID 生成符合 W3C Trace Context 规范的 SpanID。
//
// 格式: 16位小写十六进制字符串 (64-bit)
// 示例: "b7ad6b7169203331"
// 使用 crypto/rand 保证随机性；全零结果（概率 2^-64）会重新生成。
//
// Panic 策略：与 GenerateTraceID 相同，熵源不可用时会 panic。
func GenerateSpanID() string {
	var buf [SpanIDSize]byte
	for {
		if _, err := rand.Read(buf[:]); err != nil {
			panic("xctx: crypto/rand.Read failed: " + err.Error())
		}
		if !isAllZeros(buf[:]) {
			return hex.EncodeToString(buf[:])
		}
	}
}
