package xlog

import (
	"context"
	"errors"
	"log/slog"

	"github.com/omeyang/corrkit/pkg/context/xctx"
)

// ErrNilHandler 当 NewEnrichHandler 的 base handler 为 nil 时返回。
var ErrNilHandler = errors.New("xlog: base handler is nil")

// EnrichHandler 自动从 context 提取关联记录并注入日志。
//
// 装饰模式实现，包装底层 slog.Handler，在 Handle() 时自动添加
// operation_id、transaction_id、operation_parent_id 三个属性中的非空者。
//
// Best-effort 策略：context 中没有关联记录时不影响日志正常输出。
type EnrichHandler struct {
	base slog.Handler
}

// NewEnrichHandler 创建 EnrichHandler。
func NewEnrichHandler(base slog.Handler) (*EnrichHandler, error) {
	if base == nil {
		return nil, ErrNilHandler
	}
	return &EnrichHandler{base: base}, nil
}

// Enabled 委托给底层 handler。
func (h *EnrichHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

// maxEnrichAttrs 最大注入属性数量（operation/transaction/parent 三个）
const maxEnrichAttrs = 3

// Handle 在调用底层 handler 前，从 context 提取关联字段。
//
// 根据 slog 契约，修改前必须 Clone record，避免影响其他 handler。
// ctx 为 nil 时安全退化为无注入。
// 使用栈数组 [maxEnrichAttrs]slog.Attr 避免热路径堆分配。
func (h *EnrichHandler) Handle(ctx context.Context, r slog.Record) error {
	var buf [maxEnrichAttrs]slog.Attr
	attrs := xctx.AppendCorrelationAttrs(buf[:0], ctx)

	if len(attrs) > 0 {
		r = r.Clone()
		r.AddAttrs(attrs...)
	}

	return h.base.Handle(ctx, r)
}

// WithAttrs 返回带额外属性的新 handler。
func (h *EnrichHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &EnrichHandler{base: h.base.WithAttrs(attrs)}
}

// WithGroup 返回带分组的新 handler。
func (h *EnrichHandler) WithGroup(name string) slog.Handler {
	return &EnrichHandler{base: h.base.WithGroup(name)}
}
