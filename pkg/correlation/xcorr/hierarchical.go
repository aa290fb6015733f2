package xcorr

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/omeyang/corrkit/pkg/context/xctx"
	"github.com/omeyang/corrkit/pkg/observability/xlog"
)

// correlateHierarchical 处理遗留层级协议的请求。
//
// 流程：
//  1. 按配置的事务头查找 transaction ID（大小写不敏感、取第一个值、
//     空白视为缺失）。存在但配置禁止外部传入时，关联失败且不写入任何状态。
//  2. operation ID：宿主提供的 traceIdentifier 非空则原样使用，
//     否则调用 operation 生成器（空结果为致命配置错误）。
//  3. transaction ID：第 1 步找到则使用；否则按 GenerateWhenAbsent
//     生成（空结果致命）或保持缺失。
//  4. operation parent ID 与回显值：提取开启时按 Request-Id 文法校验
//     上游头并提取 parent（缺失或不合规不构成失败）；提取关闭时
//     生成新 parent ID 并同时用作回显值。
func (c *Correlator) correlateHierarchical(ctx context.Context, h http.Header, traceIdentifier string) (context.Context, Result, error) {
	txOpts := c.opts.Transaction

	transactionID := strings.TrimSpace(h.Get(txOpts.HeaderName))
	if transactionID != "" && !txOpts.AllowInRequest {
		xlog.Debug(ctx, "xcorr: rejecting externally supplied transaction id",
			slog.String("header", txOpts.HeaderName))
		return ctx, failure("request contains transaction header %s but externally supplied transaction ids are not allowed", txOpts.HeaderName), nil
	}

	operationID := strings.TrimSpace(traceIdentifier)
	if operationID == "" {
		operationID = strings.TrimSpace(c.opts.Operation.Generate())
		if operationID == "" {
			return ctx, Result{}, fmt.Errorf("%w: operation id generator returned a blank value", ErrConfig)
		}
	}

	if transactionID == "" && txOpts.GenerateWhenAbsent {
		transactionID = strings.TrimSpace(txOpts.Generate())
		if transactionID == "" {
			return ctx, Result{}, fmt.Errorf("%w: transaction id generator returned a blank value", ErrConfig)
		}
	}

	parentID, requestID, err := c.resolveUpstream(ctx, h)
	if err != nil {
		return ctx, Result{}, err
	}

	ctx, err = xctx.WithCorrelation(ctx, Info{
		OperationID:       operationID,
		TransactionID:     transactionID,
		OperationParentID: parentID,
	})
	if err != nil {
		return ctx, Result{}, err
	}

	return ctx, success(requestID), nil
}

// resolveUpstream 确定 operation parent ID 与回显用的 request ID。
//
// 提取开启时：上游头缺失、文法不合规或校验超时都只是软性缺失——
// 请求没有可识别的上游，本路径自身不会失败。
// 提取关闭时：生成新 parent ID，空结果为致命配置错误。
func (c *Correlator) resolveUpstream(ctx context.Context, h http.Header) (parentID, requestID string, err error) {
	up := c.opts.UpstreamService

	if !up.ExtractFromRequest {
		parentID = strings.TrimSpace(up.Generate())
		if parentID == "" {
			return "", "", fmt.Errorf("%w: upstream service id generator returned a blank value", ErrConfig)
		}
		return parentID, parentID, nil
	}

	raw := strings.TrimSpace(h.Get(up.HeaderName))
	if raw == "" {
		return "", "", nil
	}
	if !matchRequestIDFormat(ctx, raw) {
		xlog.Debug(ctx, "xcorr: upstream request id does not match the hierarchical format, continuing without parent",
			slog.String("header", up.HeaderName))
		return "", "", nil
	}
	return extractParentID(raw), raw, nil
}

// extractParentID 从合规的层级 request ID 中提取直接上游的标识。
//
// 值包含 '.' 时取最后一个非空白的点分段（原样返回，不去除空白）；
// 否则剥掉单个前导 '|'。
func extractParentID(requestID string) string {
	if strings.Contains(requestID, ".") {
		parts := strings.Split(requestID, ".")
		for i := len(parts) - 1; i >= 0; i-- {
			if strings.TrimSpace(parts[i]) != "" {
				return parts[i]
			}
		}
		return ""
	}
	return strings.TrimPrefix(requestID, "|")
}
