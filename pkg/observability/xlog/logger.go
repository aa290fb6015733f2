package xlog

import (
	"context"
	"log/slog"
	"runtime"
	"time"
)

// xlogger Logger 接口的默认实现。
//
// 持有装饰后的 slog.Handler 与共享的 LevelVar。
// 派生（With）出的 logger 共享同一个 LevelVar，级别调整全局生效。
type xlogger struct {
	handler  slog.Handler
	levelVar *slog.LevelVar
}

var _ LoggerWithLevel = (*xlogger)(nil)

// log 构造 slog.Record 并交给 handler。
//
// 调用深度固定为 3（log -> Debug/Info/Warn/Error -> 调用方），
// 保证 source 信息指向业务代码而非 xlog 内部。
func (l *xlogger) log(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !l.handler.Enabled(ctx, level) {
		return
	}
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])
	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	r.AddAttrs(attrs...)
	_ = l.handler.Handle(ctx, r)
}

func (l *xlogger) Debug(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelDebug, msg, attrs...)
}

func (l *xlogger) Info(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelInfo, msg, attrs...)
}

func (l *xlogger) Warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelWarn, msg, attrs...)
}

func (l *xlogger) Error(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelError, msg, attrs...)
}

// With 返回带额外属性的派生 Logger。
func (l *xlogger) With(attrs ...slog.Attr) Logger {
	if len(attrs) == 0 {
		return l
	}
	return &xlogger{
		handler:  l.handler.WithAttrs(attrs),
		levelVar: l.levelVar,
	}
}

// SetLevel 动态设置日志级别。
func (l *xlogger) SetLevel(level Level) {
	l.levelVar.Set(level)
}

// GetLevel 获取当前日志级别。
func (l *xlogger) GetLevel() Level {
	return l.levelVar.Level()
}
