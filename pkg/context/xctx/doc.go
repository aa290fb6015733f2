// Package xctx 提供请求作用域数据的 context 存取能力。
//
// 本包是 corrkit 的底层存储层，管理两类请求级数据：
//
//   - Correlation：每请求装配一次的关联记录（operation_id / transaction_id /
//     operation_parent_id），由 xcorr 在请求入口写入，日志与业务代码读取。
//   - Trace / Baggage：进程内的环境追踪上下文（W3C trace-id、span-id、
//     trace-flags、tracestate 与 baggage 键值对）。
//
// 设计决策: 不使用进程级的"当前活动"全局状态传播追踪信息，
// 而是显式的 context 传递：所有请求级状态都挂在调用方持有的
// context 上，不存在包级可变状态，天然并发安全。
//
// ID 生成遵循 W3C Trace Context 规范：trace-id 为 32 位小写十六进制
// （128-bit），span-id 为 16 位小写十六进制（64-bit），均基于 crypto/rand
// 且保证非全零。
package xctx
