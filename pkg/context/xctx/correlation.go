package xctx

import (
	"context"
	"log/slog"
)

// =============================================================================
// Correlation 关联记录
// =============================================================================

// Correlation 一次请求的关联记录。
//
// 请求入口处装配一次，之后不再修改：
//   - OperationID：本次请求自身的标识，成功关联后保证非空
//   - TransactionID：请求所属端到端链路的标识，配置禁用生成且上游未提供时为空
//   - OperationParentID：直接上游调用方的标识，未识别到上游时为空
type Correlation struct {
	OperationID       string
	TransactionID     string
	OperationParentID string
}

// IsZero 判断关联记录是否为空（三个字段均未设置）。
func (c Correlation) IsZero() bool {
	return c.OperationID == "" && c.TransactionID == "" && c.OperationParentID == ""
}

// WithCorrelation 将关联记录注入 context。
//
// 约定为每请求至多写入一次（single-writer-once），本函数不强制检查；
// 重复写入会覆盖旧值。如果 ctx 为 nil，返回 ErrNilContext。
func WithCorrelation(ctx context.Context, c Correlation) (context.Context, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	return context.WithValue(ctx, keyCorrelation, c), nil
}

// CorrelationFrom 从 context 提取关联记录。
// 第二个返回值表示记录是否存在。
func CorrelationFrom(ctx context.Context) (Correlation, bool) {
	if ctx == nil {
		return Correlation{}, false
	}
	if v, ok := ctx.Value(keyCorrelation).(Correlation); ok {
		return v, true
	}
	return Correlation{}, false
}

// OperationID 从 context 提取 operation ID，不存在返回空字符串。
func OperationID(ctx context.Context) string {
	c, _ := CorrelationFrom(ctx)
	return c.OperationID
}

// TransactionID 从 context 提取 transaction ID，不存在返回空字符串。
func TransactionID(ctx context.Context) string {
	c, _ := CorrelationFrom(ctx)
	return c.TransactionID
}

// OperationParentID 从 context 提取 operation parent ID，不存在返回空字符串。
func OperationParentID(ctx context.Context) string {
	c, _ := CorrelationFrom(ctx)
	return c.OperationParentID
}

// =============================================================================
// slog 属性辅助
// =============================================================================

// AppendCorrelationAttrs 将 context 中的关联字段追加到 attrs。
//
// 仅追加非空字段；ctx 为 nil 或无关联记录时原样返回 attrs。
// 供 xlog 的 EnrichHandler 在热路径上使用，调用方可传入栈上数组切片
// 避免堆分配。
func AppendCorrelationAttrs(attrs []slog.Attr, ctx context.Context) []slog.Attr {
	c, ok := CorrelationFrom(ctx)
	if !ok {
		return attrs
	}
	if c.OperationID != "" {
		attrs = append(attrs, slog.String(KeyOperationID, c.OperationID))
	}
	if c.TransactionID != "" {
		attrs = append(attrs, slog.String(KeyTransactionID, c.TransactionID))
	}
	if c.OperationParentID != "" {
		attrs = append(attrs, slog.String(KeyOperationParentID, c.OperationParentID))
	}
	return attrs
}
