package xlog

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// =============================================================================
// 输出格式
// =============================================================================

// Format 日志输出格式。
type Format string

// 支持的输出格式。
const (
	// FormatText 人类可读的 text 格式（默认）。
	FormatText Format = "text"

	// FormatJSON JSON 格式，适用于日志采集系统。
	FormatJSON Format = "json"
)

// RotationConfig 日志轮转配置，映射到 lumberjack。
type RotationConfig struct {
	// Filename 日志文件路径
	Filename string

	// MaxSizeMB 单文件最大体积（MB），超过后轮转
	MaxSizeMB int

	// MaxBackups 保留的旧文件数量，0 表示不限制
	MaxBackups int

	// MaxAgeDays 旧文件保留天数，0 表示不限制
	MaxAgeDays int

	// Compress 是否压缩轮转出的旧文件
	Compress bool
}

// =============================================================================
// Builder
// =============================================================================

var (
	// ErrBuilderReused Builder 在 Build 之后被复用。
	ErrBuilderReused = errors.New("xlog: builder already built, create a new one with New")

	// ErrNilOutput SetOutput 传入 nil writer。
	ErrNilOutput = errors.New("xlog: nil output writer")
)

// Builder 以链式调用构建 Logger。
//
// first-error-wins：遇到第一个配置错误后，后续 Set 操作被跳过，
// 错误在 Build 时统一返回。Builder 为一次性使用。
type Builder struct {
	level    Level
	format   Format
	output   io.Writer
	rotation *RotationConfig
	enrich   bool
	built    bool
	err      error
}

// New 创建 Builder，默认配置：stderr、Info 级别、text 格式、启用 enrich。
func New() *Builder {
	return &Builder{
		level:  LevelInfo,
		format: FormatText,
		output: os.Stderr,
		enrich: true,
	}
}

// SetLevel 设置初始日志级别。
func (b *Builder) SetLevel(level Level) *Builder {
	if b.err != nil {
		return b
	}
	b.level = level
	return b
}

// SetFormat 设置输出格式。
func (b *Builder) SetFormat(format Format) *Builder {
	if b.err != nil {
		return b
	}
	if format != FormatText && format != FormatJSON {
		b.err = fmt.Errorf("xlog: unknown format %q", string(format))
		return b
	}
	b.format = format
	return b
}

// SetOutput 设置输出目标。与 SetRotation 互斥，后设置者生效。
func (b *Builder) SetOutput(w io.Writer) *Builder {
	if b.err != nil {
		return b
	}
	if w == nil {
		b.err = ErrNilOutput
		return b
	}
	b.output = w
	b.rotation = nil
	return b
}

// SetRotation 设置文件输出及轮转策略。
func (b *Builder) SetRotation(cfg RotationConfig) *Builder {
	if b.err != nil {
		return b
	}
	if cfg.Filename == "" {
		b.err = errors.New("xlog: rotation filename is empty")
		return b
	}
	b.rotation = &cfg
	return b
}

// SetEnrich 设置是否启用关联字段自动注入。默认启用。
func (b *Builder) SetEnrich(enabled bool) *Builder {
	if b.err != nil {
		return b
	}
	b.enrich = enabled
	return b
}

// Build 构建 Logger。
//
// 返回的 cleanup 在使用轮转输出时负责关闭底层文件，
// 其余情况为 no-op；调用方应在进程退出前调用。
func (b *Builder) Build() (LoggerWithLevel, func() error, error) {
	if b.err != nil {
		return nil, nil, b.err
	}
	if b.built {
		return nil, nil, ErrBuilderReused
	}
	b.built = true

	out := b.output
	cleanup := func() error { return nil }
	if b.rotation != nil {
		lj := &lumberjack.Logger{
			Filename:   b.rotation.Filename,
			MaxSize:    b.rotation.MaxSizeMB,
			MaxBackups: b.rotation.MaxBackups,
			MaxAge:     b.rotation.MaxAgeDays,
			Compress:   b.rotation.Compress,
		}
		out = lj
		cleanup = lj.Close
	}

	levelVar := new(slog.LevelVar)
	levelVar.Set(b.level)
	opts := &slog.HandlerOptions{Level: levelVar}

	var handler slog.Handler
	if b.format == FormatJSON {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	if b.enrich {
		enriched, err := NewEnrichHandler(handler)
		if err != nil {
			return nil, nil, err
		}
		handler = enriched
	}

	return &xlogger{handler: handler, levelVar: levelVar}, cleanup, nil
}
