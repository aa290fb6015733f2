// xlog.go 定义核心接口：Logger、Leveler、LoggerWithLevel 与日志级别。
//
// 设计理念：
//   - 强制 context 传递，确保关联信息传播
//   - 动态级别控制，支持运行时调整
//   - Handler 装饰链，自动注入 xctx 关联字段
//   - 类型安全，方法签名只接受 slog.Attr
package xlog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Logger 日志接口。
//
// 所有方法都需要 context.Context 参数，确保关联信息正确传播。
// 方法签名只接受 slog.Attr，避免隐式 key-value 转换开销。
type Logger interface {
	// Debug 记录 Debug 级别日志
	Debug(ctx context.Context, msg string, attrs ...slog.Attr)

	// Info 记录 Info 级别日志
	Info(ctx context.Context, msg string, attrs ...slog.Attr)

	// Warn 记录 Warn 级别日志
	Warn(ctx context.Context, msg string, attrs ...slog.Attr)

	// Error 记录 Error 级别日志
	Error(ctx context.Context, msg string, attrs ...slog.Attr)

	// With 返回带额外属性的派生 Logger。
	// 派生 logger 共享父级的 LevelVar，动态级别变更会同步生效。
	With(attrs ...slog.Attr) Logger
}

// Leveler 级别控制接口。
//
// 与 Logger 分离，避免污染核心日志接口。
type Leveler interface {
	// SetLevel 动态设置日志级别，运行时生效
	SetLevel(level Level)

	// GetLevel 获取当前日志级别
	GetLevel() Level
}

// LoggerWithLevel 组合接口：Logger + Leveler。
// Build() 返回此接口，避免业务代码频繁类型断言。
type LoggerWithLevel interface {
	Logger
	Leveler
}

// =============================================================================
// 日志级别
// =============================================================================

// Level 日志级别，底层为 slog.Level。
type Level = slog.Level

// 支持的日志级别。
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// ParseLevel 从字符串解析日志级别（大小写不敏感）。
// 支持 "debug"、"info"、"warn"、"error"。
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("xlog: unknown level %q", s)
	}
}

// =============================================================================
// 便捷属性
// =============================================================================

// Err 构造 error 属性；err 为 nil 时值为空字符串。
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// Component 构造 component 属性，标识日志来源模块。
func Component(name string) slog.Attr {
	return slog.String("component", name)
}
