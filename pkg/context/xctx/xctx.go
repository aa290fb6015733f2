package xctx

import "errors"

// =============================================================================
// Context Key 类型定义
// =============================================================================

// 设计决策: contextKey 使用 string 而非 int+iota，理由如下：
//   - 作为包私有类型，不会与其他包的 context key 冲突（Go context 比较包含类型信息）
//   - 字符串值在调试/日志中可读性高，便于排查 context 传播问题
type contextKey string

const (
	keyCorrelation = contextKey("xctx:correlation")
	keyTrace       = contextKey("xctx:trace")
	keyBaggage     = contextKey("xctx:baggage")
)

// =============================================================================
// 通用错误
// =============================================================================

var (
	// ErrNilContext 表示传入的 context 为 nil。
	ErrNilContext = errors.New("xctx: nil context")
)

// =============================================================================
// 日志属性 Key 常量
// =============================================================================

// 关联字段的日志属性 Key，遵循下划线分隔的语义约定。
const (
	KeyOperationID       = "operation_id"
	KeyTransactionID     = "transaction_id"
	KeyOperationParentID = "operation_parent_id"
)
