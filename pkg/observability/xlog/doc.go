// Package xlog 基于 log/slog 的结构化日志库。
//
// # 核心功能
//
//   - Builder 模式配置（输出目标、级别、格式、轮转）
//   - 自动从 context 注入 operation_id / transaction_id / operation_parent_id
//     （EnrichHandler，默认启用）
//   - 动态级别调整（运行时热更新）
//   - 全局 Logger 便利函数
//
// # 创建 Logger
//
//	logger, err := xlog.New().
//	    SetLevel(xlog.LevelDebug).
//	    SetFormat(xlog.FormatJSON).
//	    Build()
//
// Builder 为一次性使用：调用 [Builder.Build] 后不可复用。
//
// # 全局 Logger
//
// 适用于库内部和脚手架场景，服务端推荐依赖注入。
//
//   - [Default]: 获取全局 Logger（惰性初始化：stderr、Info 级别、text 格式）
//   - [SetDefault]: 替换全局 Logger（nil 会被忽略）
//   - [Debug]、[Info]、[Warn]、[Error]: 全局便利函数，签名为 (ctx, msg, ...slog.Attr)
//
// corrkit 的其他包（xcorr 等）通过全局便利函数记录诊断日志，
// 宿主应用可用 SetDefault 接管输出。
package xlog
