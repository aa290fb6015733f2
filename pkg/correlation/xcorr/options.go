package xcorr

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// =============================================================================
// Scheme 关联协议
// =============================================================================

// Scheme 关联协议，显式的带标签变体。
// 两种协议在同一请求内互斥，协议选定后不再切换。
type Scheme string

// 支持的关联协议。
const (
	// SchemeW3C W3C Trace Context 风格：traceparent / tracestate 头，
	// 32 位十六进制 trace-id + 16 位十六进制 span-id。
	SchemeW3C Scheme = "W3C"

	// SchemeHierarchical 遗留层级协议：自定义事务头 +
	// Request-Id 点分层级格式。
	SchemeHierarchical Scheme = "Hierarchical"
)

// ParseScheme 从字符串解析协议（大小写不敏感）。
func ParseScheme(s string) (Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "w3c":
		return SchemeW3C, nil
	case "hierarchical":
		return SchemeHierarchical, nil
	default:
		return "", fmt.Errorf("%w: unknown correlation scheme %q", ErrConfig, s)
	}
}

// =============================================================================
// 默认值
// =============================================================================

// 默认响应/请求头名称。
const (
	// DefaultOperationHeaderName operation ID 的默认头名称
	DefaultOperationHeaderName = "X-Operation-Id"

	// DefaultTransactionHeaderName transaction ID 的默认头名称
	DefaultTransactionHeaderName = "X-Transaction-ID"

	// DefaultUpstreamHeaderName 层级协议下上游标识的默认头名称
	DefaultUpstreamHeaderName = "Request-Id"
)

// GenerateFunc 标识符生成函数，按类别注入。
//
// 契约：必须返回非空字符串；返回空白值会被视为致命配置错误，
// 中止整个关联尝试（参见 ErrConfig）。
type GenerateFunc func() string

// =============================================================================
// Options
// =============================================================================

// OperationOptions operation ID 的配置。
type OperationOptions struct {
	// HeaderName 回写响应时使用的头名称
	HeaderName string `koanf:"header_name"`

	// IncludeInResponse 是否将 operation ID 写入响应头
	IncludeInResponse bool `koanf:"include_in_response"`

	// Generate 生成新 operation ID 的函数，默认 uuid v4
	Generate GenerateFunc `koanf:"-"`
}

// TransactionOptions transaction ID 的配置。
type TransactionOptions struct {
	// HeaderName 请求提取与响应回写共用的头名称
	HeaderName string `koanf:"header_name"`

	// AllowInRequest 是否接受外部传入的 transaction ID。
	// 为 false 且请求携带了该头时，关联以失败结束。
	AllowInRequest bool `koanf:"allow_in_request"`

	// GenerateWhenAbsent 请求未携带 transaction ID 时是否生成新值。
	// 为 false 时 transaction ID 保持缺失。
	GenerateWhenAbsent bool `koanf:"generate_when_absent"`

	// IncludeInResponse 是否将 transaction ID 写入响应头
	IncludeInResponse bool `koanf:"include_in_response"`

	// Generate 生成新 transaction ID 的函数，默认 uuid v4
	Generate GenerateFunc `koanf:"-"`
}

// UpstreamOptions 上游标识（operation parent ID）的配置。
type UpstreamOptions struct {
	// HeaderName 层级协议下上游标识的头名称。
	// W3C 协议回写响应时固定使用字面量 "traceparent"，不受此配置影响。
	HeaderName string `koanf:"header_name"`

	// ExtractFromRequest 是否从请求头提取上游标识。
	// 为 false 时改为调用 Generate 生成 parent ID 并同时用作回显值。
	ExtractFromRequest bool `koanf:"extract_from_request"`

	// IncludeInResponse 是否将上游标识写入响应头
	IncludeInResponse bool `koanf:"include_in_response"`

	// Generate 生成新 parent ID 的函数，默认 uuid v4
	Generate GenerateFunc `koanf:"-"`
}

// Options 关联引擎的完整配置。
// 请求处理期间只读；修改配置需重新构造 Correlator。
type Options struct {
	// Scheme 激活的关联协议
	Scheme Scheme `koanf:"scheme"`

	Operation       OperationOptions   `koanf:"operation"`
	Transaction     TransactionOptions `koanf:"transaction"`
	UpstreamService UpstreamOptions    `koanf:"upstream_service"`
}

// DefaultOptions 返回默认配置：W3C 协议、三类标识均回写响应、
// 允许并在缺失时生成 transaction ID、从请求提取上游标识、uuid 生成器。
func DefaultOptions() Options {
	return Options{
		Scheme: SchemeW3C,
		Operation: OperationOptions{
			HeaderName:        DefaultOperationHeaderName,
			IncludeInResponse: true,
			Generate:          uuid.NewString,
		},
		Transaction: TransactionOptions{
			HeaderName:         DefaultTransactionHeaderName,
			AllowInRequest:     true,
			GenerateWhenAbsent: true,
			IncludeInResponse:  true,
			Generate:           uuid.NewString,
		},
		UpstreamService: UpstreamOptions{
			HeaderName:         DefaultUpstreamHeaderName,
			ExtractFromRequest: true,
			IncludeInResponse:  true,
			Generate:           uuid.NewString,
		},
	}
}

// =============================================================================
// 函数式选项
// =============================================================================

// Option Correlator 构造选项。
type Option func(*Options)

// WithOptions 整体替换配置。
// 未填写的字段在 New 中补齐默认值（空头名称、nil 生成器）。
func WithOptions(o Options) Option {
	return func(dst *Options) {
		*dst = o
	}
}

// WithScheme 设置关联协议。
func WithScheme(s Scheme) Option {
	return func(o *Options) {
		o.Scheme = s
	}
}

// WithOperationGenerator 设置 operation ID 生成器。
func WithOperationGenerator(fn GenerateFunc) Option {
	return func(o *Options) {
		o.Operation.Generate = fn
	}
}

// WithTransactionGenerator 设置 transaction ID 生成器。
func WithTransactionGenerator(fn GenerateFunc) Option {
	return func(o *Options) {
		o.Transaction.Generate = fn
	}
}

// WithUpstreamGenerator 设置上游标识生成器。
func WithUpstreamGenerator(fn GenerateFunc) Option {
	return func(o *Options) {
		o.UpstreamService.Generate = fn
	}
}

// normalize 补齐缺省字段。空头名称与 nil 生成器回退到默认值，
// 使 WithOptions 传入部分填写的 Options 也能工作。
func (o *Options) normalize() {
	def := DefaultOptions()
	if o.Operation.HeaderName == "" {
		o.Operation.HeaderName = def.Operation.HeaderName
	}
	if o.Transaction.HeaderName == "" {
		o.Transaction.HeaderName = def.Transaction.HeaderName
	}
	if o.UpstreamService.HeaderName == "" {
		o.UpstreamService.HeaderName = def.UpstreamService.HeaderName
	}
	if o.Operation.Generate == nil {
		o.Operation.Generate = def.Operation.Generate
	}
	if o.Transaction.Generate == nil {
		o.Transaction.Generate = def.Transaction.Generate
	}
	if o.UpstreamService.Generate == nil {
		o.UpstreamService.Generate = def.UpstreamService.Generate
	}
}

// validate 校验配置。目前只有协议值需要前置检查，
// 生成器的"非空返回"契约只能在调用时验证。
func (o *Options) validate() error {
	switch o.Scheme {
	case SchemeW3C, SchemeHierarchical:
		return nil
	default:
		return fmt.Errorf("%w: unknown correlation scheme %q", ErrConfig, string(o.Scheme))
	}
}
