package xctx_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/omeyang/corrkit/pkg/context/xctx"
)

func TestWithCorrelation_RoundTrip(t *testing.T) {
	want := xctx.Correlation{
		OperationID:       "op-1",
		TransactionID:     "txn-1",
		OperationParentID: "parent-1",
	}

	ctx, err := xctx.WithCorrelation(context.Background(), want)
	if err != nil {
		t.Fatalf("WithCorrelation: %v", err)
	}

	got, ok := xctx.CorrelationFrom(ctx)
	if !ok {
		t.Fatal("CorrelationFrom: record not found")
	}
	if got != want {
		t.Errorf("CorrelationFrom = %+v, want %+v", got, want)
	}

	if id := xctx.OperationID(ctx); id != "op-1" {
		t.Errorf("OperationID = %q, want %q", id, "op-1")
	}
	if id := xctx.TransactionID(ctx); id != "txn-1" {
		t.Errorf("TransactionID = %q, want %q", id, "txn-1")
	}
	if id := xctx.OperationParentID(ctx); id != "parent-1" {
		t.Errorf("OperationParentID = %q, want %q", id, "parent-1")
	}
}

func TestWithCorrelation_NilContext(t *testing.T) {
	//nolint:staticcheck // 故意传入 nil context 验证入参检查
	if _, err := xctx.WithCorrelation(nil, xctx.Correlation{}); err != xctx.ErrNilContext {
		t.Errorf("WithCorrelation(nil) error = %v, want ErrNilContext", err)
	}
}

func TestCorrelationFrom_Absent(t *testing.T) {
	if _, ok := xctx.CorrelationFrom(context.Background()); ok {
		t.Error("CorrelationFrom on empty context should report absence")
	}
	if _, ok := xctx.CorrelationFrom(nil); ok { //nolint:staticcheck // nil 容忍性
		t.Error("CorrelationFrom(nil) should report absence")
	}
	if id := xctx.OperationID(context.Background()); id != "" {
		t.Errorf("OperationID on empty context = %q, want empty", id)
	}
}

func TestCorrelation_IsZero(t *testing.T) {
	if !(xctx.Correlation{}).IsZero() {
		t.Error("empty Correlation should be zero")
	}
	if (xctx.Correlation{OperationID: "op"}).IsZero() {
		t.Error("Correlation with OperationID should not be zero")
	}
}

func TestAppendCorrelationAttrs(t *testing.T) {
	ctx, _ := xctx.WithCorrelation(context.Background(), xctx.Correlation{
		OperationID:   "op-1",
		TransactionID: "txn-1",
		// OperationParentID 缺失，不应出现在属性中
	})

	attrs := xctx.AppendCorrelationAttrs(nil, ctx)
	if len(attrs) != 2 {
		t.Fatalf("len(attrs) = %d, want 2", len(attrs))
	}

	keys := map[string]string{}
	for _, a := range attrs {
		keys[a.Key] = a.Value.String()
	}
	if keys[xctx.KeyOperationID] != "op-1" {
		t.Errorf("attr %s = %q, want %q", xctx.KeyOperationID, keys[xctx.KeyOperationID], "op-1")
	}
	if keys[xctx.KeyTransactionID] != "txn-1" {
		t.Errorf("attr %s = %q, want %q", xctx.KeyTransactionID, keys[xctx.KeyTransactionID], "txn-1")
	}
	if _, present := keys[xctx.KeyOperationParentID]; present {
		t.Error("blank OperationParentID should not be appended")
	}
}

func TestAppendCorrelationAttrs_NoRecord(t *testing.T) {
	base := []slog.Attr{slog.String("k", "v")}

	attrs := xctx.AppendCorrelationAttrs(base, context.Background())
	if len(attrs) != 1 {
		t.Errorf("len(attrs) = %d, want 1 (unchanged)", len(attrs))
	}
}
