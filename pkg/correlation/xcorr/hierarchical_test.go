package xcorr_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/corrkit/pkg/context/xctx"
	"github.com/omeyang/corrkit/pkg/correlation/xcorr"
)

// hierarchicalOptions 返回层级协议的基线配置，按需在用例中修改
func hierarchicalOptions() xcorr.Options {
	o := xcorr.DefaultOptions()
	o.Scheme = xcorr.SchemeHierarchical
	return o
}

// =============================================================================
// 事务头处理
// =============================================================================

func TestHierarchical_TransactionFromHeader(t *testing.T) {
	c := mustNew(t, xcorr.WithOptions(hierarchicalOptions()))

	h := makeHeader(xcorr.DefaultTransactionHeaderName, "txn-abc")
	ctx, res, err := c.CorrelateRequest(context.Background(), h, "")
	require.NoError(t, err)
	require.True(t, res.Success)

	info, ok := xctx.CorrelationFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, "txn-abc", info.TransactionID)
	assert.NotEmpty(t, info.OperationID)
}

func TestHierarchical_TransactionHeaderCaseInsensitive(t *testing.T) {
	c := mustNew(t, xcorr.WithOptions(hierarchicalOptions()))

	h := make(http.Header)
	h.Set("x-transaction-id", "txn-lower")
	ctx, res, err := c.CorrelateRequest(context.Background(), h, "")
	require.NoError(t, err)
	require.True(t, res.Success)

	info, _ := xctx.CorrelationFrom(ctx)
	assert.Equal(t, "txn-lower", info.TransactionID)
}

func TestHierarchical_ForbiddenTransactionHeader(t *testing.T) {
	o := hierarchicalOptions()
	o.Transaction.AllowInRequest = false
	c := mustNew(t, xcorr.WithOptions(o))

	h := makeHeader(xcorr.DefaultTransactionHeaderName, "txn-abc")
	ctx, res, err := c.CorrelateRequest(context.Background(), h, "")
	require.NoError(t, err, "提取失败不是 error，而是失败结果")
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.ErrorMessage)

	_, ok := xctx.CorrelationFrom(ctx)
	assert.False(t, ok, "失败路径不得存储关联记录")
}

func TestHierarchical_BlankTransactionHeaderTreatedAsAbsent(t *testing.T) {
	o := hierarchicalOptions()
	o.Transaction.AllowInRequest = false
	o.Transaction.GenerateWhenAbsent = false
	c := mustNew(t, xcorr.WithOptions(o))

	h := makeHeader(xcorr.DefaultTransactionHeaderName, "   ")
	ctx, res, err := c.CorrelateRequest(context.Background(), h, "")
	require.NoError(t, err)
	assert.True(t, res.Success, "空白事务头视为缺失，不触发禁止规则")

	info, _ := xctx.CorrelationFrom(ctx)
	assert.Empty(t, info.TransactionID)
}

func TestHierarchical_TransactionGeneratedWhenAbsent(t *testing.T) {
	o := hierarchicalOptions()
	o.Transaction.Generate = func() string { return "generated-txn" }
	c := mustNew(t, xcorr.WithOptions(o))

	ctx, res, err := c.CorrelateRequest(context.Background(), http.Header{}, "")
	require.NoError(t, err)
	require.True(t, res.Success)

	info, _ := xctx.CorrelationFrom(ctx)
	assert.Equal(t, "generated-txn", info.TransactionID)
}

func TestHierarchical_TransactionAbsentWhenGenerationDisabled(t *testing.T) {
	o := hierarchicalOptions()
	o.Transaction.GenerateWhenAbsent = false
	c := mustNew(t, xcorr.WithOptions(o))

	ctx, res, err := c.CorrelateRequest(context.Background(), http.Header{}, "")
	require.NoError(t, err)
	require.True(t, res.Success)

	info, _ := xctx.CorrelationFrom(ctx)
	assert.Empty(t, info.TransactionID)
	assert.NotEmpty(t, info.OperationID, "operation ID 在成功时永不为空")
}

// =============================================================================
// operation ID
// =============================================================================

func TestHierarchical_TraceIdentifierUsedVerbatim(t *testing.T) {
	c := mustNew(t, xcorr.WithOptions(hierarchicalOptions()))

	ctx, res, err := c.CorrelateRequest(context.Background(), http.Header{}, "host-trace-id")
	require.NoError(t, err)
	require.True(t, res.Success)

	info, _ := xctx.CorrelationFrom(ctx)
	assert.Equal(t, "host-trace-id", info.OperationID)
}

func TestHierarchical_BlankGeneratorIsFatal(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*xcorr.Options)
	}{
		{
			name:   "operation 生成器返回空",
			mutate: func(o *xcorr.Options) { o.Operation.Generate = func() string { return "" } },
		},
		{
			name:   "transaction 生成器返回空白",
			mutate: func(o *xcorr.Options) { o.Transaction.Generate = func() string { return "  " } },
		},
		{
			name: "upstream 生成器返回空（提取关闭）",
			mutate: func(o *xcorr.Options) {
				o.UpstreamService.ExtractFromRequest = false
				o.UpstreamService.Generate = func() string { return "" }
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := hierarchicalOptions()
			tt.mutate(&o)
			c := mustNew(t, xcorr.WithOptions(o))

			ctx, _, err := c.CorrelateRequest(context.Background(), http.Header{}, "")
			require.ErrorIs(t, err, xcorr.ErrConfig)

			_, ok := xctx.CorrelationFrom(ctx)
			assert.False(t, ok)
		})
	}
}

// =============================================================================
// 上游标识提取
// =============================================================================

func TestHierarchical_ParentExtraction(t *testing.T) {
	tests := []struct {
		name       string
		headerVal  string
		wantParent string
	}{
		{name: "带竖线的点分层级", headerVal: "|abc.def", wantParent: "def"},
		{name: "带竖线无点", headerVal: "|abc123", wantParent: "abc123"},
		{name: "无竖线无点", headerVal: "abc123", wantParent: "abc123"},
		{name: "多级点分", headerVal: "|root.child.leaf", wantParent: "leaf"},
		{name: "以点结尾取最后非空段", headerVal: "|abc.def.", wantParent: "def"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := mustNew(t, xcorr.WithOptions(hierarchicalOptions()))

			h := makeHeader(xcorr.DefaultUpstreamHeaderName, tt.headerVal)
			ctx, res, err := c.CorrelateRequest(context.Background(), h, "")
			require.NoError(t, err)
			require.True(t, res.Success)

			info, _ := xctx.CorrelationFrom(ctx)
			assert.Equal(t, tt.wantParent, info.OperationParentID)
			assert.Equal(t, tt.headerVal, res.RequestID, "回显值是原始头内容")
		})
	}
}

func TestHierarchical_MalformedUpstreamIsSoftAbsence(t *testing.T) {
	tests := []struct {
		name      string
		headerVal string
	}{
		{name: "非法字符", headerVal: "|abc!def"},
		{name: "空段", headerVal: "|..|"},
		{name: "仅竖线", headerVal: "|"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := mustNew(t, xcorr.WithOptions(hierarchicalOptions()))

			h := makeHeader(xcorr.DefaultUpstreamHeaderName, tt.headerVal)
			ctx, res, err := c.CorrelateRequest(context.Background(), h, "")
			require.NoError(t, err)
			assert.True(t, res.Success, "不合规的上游标识不构成失败")

			info, _ := xctx.CorrelationFrom(ctx)
			assert.Empty(t, info.OperationParentID)
			assert.Empty(t, res.RequestID)
		})
	}
}

func TestHierarchical_UpstreamGeneratedWhenExtractionDisabled(t *testing.T) {
	o := hierarchicalOptions()
	o.UpstreamService.ExtractFromRequest = false
	o.UpstreamService.Generate = func() string { return "generated-parent" }
	c := mustNew(t, xcorr.WithOptions(o))

	// 即使请求带了上游头也不读取
	h := makeHeader(xcorr.DefaultUpstreamHeaderName, "|abc.def")
	ctx, res, err := c.CorrelateRequest(context.Background(), h, "")
	require.NoError(t, err)
	require.True(t, res.Success)

	info, _ := xctx.CorrelationFrom(ctx)
	assert.Equal(t, "generated-parent", info.OperationParentID)
	assert.Equal(t, "generated-parent", res.RequestID, "生成的 parent 同时用作回显值")
}

func TestHierarchical_CustomHeaderNames(t *testing.T) {
	o := hierarchicalOptions()
	o.Transaction.HeaderName = "X-Legacy-Txn"
	o.UpstreamService.HeaderName = "X-Legacy-Request"
	c := mustNew(t, xcorr.WithOptions(o))

	h := makeHeader(
		"X-Legacy-Txn", "txn-1",
		"X-Legacy-Request", "|up.stream",
	)
	ctx, res, err := c.CorrelateRequest(context.Background(), h, "")
	require.NoError(t, err)
	require.True(t, res.Success)

	info, _ := xctx.CorrelationFrom(ctx)
	assert.Equal(t, "txn-1", info.TransactionID)
	assert.Equal(t, "stream", info.OperationParentID)
}
