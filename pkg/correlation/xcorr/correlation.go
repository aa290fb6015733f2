package xcorr

import (
	"fmt"

	"github.com/omeyang/corrkit/pkg/context/xctx"
)

// Info 一次请求的关联记录，底层类型为 [xctx.Correlation]。
//
// 由 CorrelateRequest 装配并写入返回的 context，每请求恰好一次，
// 之后不再修改。别名保证 xcorr 与 xctx 之间零转换成本。
type Info = xctx.Correlation

// =============================================================================
// Result 提取阶段的瞬态结果
// =============================================================================

// Result 一次关联尝试的结果。
//
// RequestID 携带需要原样回显到响应头的上游标识：
// 层级协议下是上游 Request-Id 原始值（或提取被禁用时新生成的值），
// W3C 延续链路时是入站 traceparent 原始串。它只服务于响应回写，
// 不属于 [Info]。Result 在单次请求处理内创建并消费，从不持久化。
type Result struct {
	// Success 关联是否成功
	Success bool

	// ErrorMessage 失败原因，仅在 Success 为 false 时非空
	ErrorMessage string

	// RequestID 回显到响应头的原始上游标识，可能为空
	RequestID string
}

// success 构造成功结果。
func success(requestID string) Result {
	return Result{Success: true, RequestID: requestID}
}

// failure 构造失败结果。
func failure(format string, args ...any) Result {
	return Result{ErrorMessage: fmt.Sprintf(format, args...)}
}
