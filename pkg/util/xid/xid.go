package xid

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/sony/sonyflake/v2"
)

// =============================================================================
// 错误定义
// =============================================================================

var (
	// ErrInvalidConfig 配置参数无效。
	// sonyflake.New 初始化失败（如 CheckMachineID 验证不通过）时包裹为此错误。
	ErrInvalidConfig = errors.New("xid: invalid config")

	// ErrNilGenerator 生成器实例为 nil 或未通过 NewGenerator 创建。
	// 请始终通过 NewGenerator 创建生成器实例。
	ErrNilGenerator = errors.New("xid: nil generator (use NewGenerator to create)")
)

// =============================================================================
// Generator
// =============================================================================

// Generator 分布式唯一 ID 生成器。
//
// 通过 NewGenerator 创建独立实例，适用于依赖注入和测试隔离。
// 所有方法并发安全。
type Generator struct {
	sf *sonyflake.Sonyflake
}

// NewGenerator 创建新的 ID 生成器实例。
//
// 不传入 WithMachineID 时由 sonyflake 自动从私有 IP 推导机器 ID。
//
// 设计决策: 返回 *Generator 而非接口。需要解耦的场景（xcorr 生成器注入）
// 已通过 GenerateFunc 返回的函数类型完成，无需额外接口，
// 符合 "accept interfaces, return structs" 惯例。
func NewGenerator(opts ...Option) (*Generator, error) {
	cfg := &options{}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	settings := sonyflake.Settings{}
	if !cfg.startTime.IsZero() {
		settings.StartTime = cfg.startTime
	}
	if cfg.machineID != nil {
		id := *cfg.machineID
		settings.MachineID = func() (int, error) {
			return int(id), nil
		}
	}
	if cfg.checkMachineID != nil {
		settings.CheckMachineID = func(id int) bool {
			return cfg.checkMachineID(uint16(id))
		}
	}

	sf, err := sonyflake.New(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return &Generator{sf: sf}, nil
}

// validate 校验生成器实例是否可用。
// 防止零值 Generator 或 nil *Generator 导致 nil pointer panic。
func (g *Generator) validate() error {
	if g == nil || g.sf == nil {
		return ErrNilGenerator
	}
	return nil
}

// New 生成新的唯一 ID（int64 格式）。
func (g *Generator) New() (int64, error) {
	if err := g.validate(); err != nil {
		return 0, err
	}
	return g.sf.NextID()
}

// NewString 生成新的唯一 ID（十进制字符串格式）。
//
// 输出仅含数字字符，长度约 18-19 位，时间有序。
func (g *Generator) NewString() (string, error) {
	id, err := g.New()
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(id, 10), nil
}

// GenerateFunc 返回可注入 xcorr 的生成器函数。
//
// 返回的闭包在生成失败时返回空字符串——xcorr 将空结果视为
// 致命配置错误并中止本次关联，与"生成器必须返回非空值"的契约一致。
func (g *Generator) GenerateFunc() func() string {
	return func() string {
		s, err := g.NewString()
		if err != nil {
			return ""
		}
		return s
	}
}
