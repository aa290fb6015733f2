package xcorr

import "errors"

// =============================================================================
// 入参错误（致命，不重试）
// =============================================================================

var (
	// ErrNilContext 表示传入的 context 为 nil。
	ErrNilContext = errors.New("xcorr: nil context")

	// ErrNilHeaderWriter 表示传入的响应头写入函数为 nil。
	ErrNilHeaderWriter = errors.New("xcorr: nil header writer")
)

// =============================================================================
// 配置错误（致命，代表部署错误而非运行时状态）
// =============================================================================

var (
	// ErrConfig 关联配置无效。
	// 未知的协议值、生成器返回空值等均包裹此错误。
	// 这类错误必须中止请求处理，而非静默降级。
	ErrConfig = errors.New("xcorr: invalid correlation configuration")
)
