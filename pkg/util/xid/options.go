package xid

import "time"

// Option 生成器配置选项。
type Option func(*options)

type options struct {
	startTime      time.Time
	machineID      *uint16
	checkMachineID func(uint16) bool
}

// WithStartTime 设置 ID 时间分量的起始时间。
//
// 默认使用 sonyflake 的内置起点。同一集群内所有实例必须使用相同的
// 起始时间，否则 ID 的时间有序性会被破坏。
func WithStartTime(t time.Time) Option {
	return func(o *options) {
		o.startTime = t
	}
}

// WithMachineID 显式指定机器 ID（16-bit）。
//
// 默认由 sonyflake 从私有 IP 低 16 位推导。容器化部署中 IP 不稳定时
// 建议通过此选项显式指定。
func WithMachineID(id uint16) Option {
	return func(o *options) {
		o.machineID = &id
	}
}

// WithCheckMachineID 设置机器 ID 唯一性校验函数。
//
// sonyflake 初始化时调用；返回 false 会使 NewGenerator 失败，
// 用于在启动期拦截机器 ID 冲突。
func WithCheckMachineID(fn func(uint16) bool) Option {
	return func(o *options) {
		o.checkMachineID = fn
	}
}
