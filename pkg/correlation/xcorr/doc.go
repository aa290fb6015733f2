// Package xcorr 实现 HTTP 请求关联：从入站请求推导、传播并回写
// 把分布式调用链串联起来的标识符。
//
// 每个请求推导三个标识：
//
//   - operation ID：本次请求自身的标识
//   - transaction ID：请求所属端到端链路的标识
//   - operation parent ID：直接上游调用方的标识（可能不存在）
//
// # 两种关联协议
//
// 通过 [Options.Scheme] 选择，二者互斥：
//
//   - [SchemeW3C]：W3C Trace Context 风格。入站 traceparent 合规时延续
//     既有链路（解析 trace-id / parent span-id，生成本跳 span-id）；
//     否则开启新链路（生成全新 trace-id / span-id，并从
//     Correlation-Context 头解析 baggage）。
//   - [SchemeHierarchical]：遗留层级协议。事务 ID 取自可配置的自定义头，
//     上游标识取自 Request-Id 点分格式并校验其文法。
//
// # 基本用法
//
//	c, err := xcorr.New()  // 默认 W3C 协议
//	if err != nil { ... }
//	handler := xcorr.HTTPMiddleware(c)(mux)
//
// 业务代码通过 xctx 读取关联记录：
//
//	info, ok := xctx.CorrelationFrom(r.Context())
//
// # 错误分类
//
// 入参非法（nil context / nil header writer）与配置错误（未知协议、
// 生成器返回空值）通过 error 返回，属于不可重试的致命问题；
// 提取失败（被禁止的事务头、traceparent 不合规）通过 [Result] 的
// 失败态返回，由调用方决定如何响应客户端；头缺失、格式不符、
// 校验超时一律是软性缺失——仅记录诊断日志，继续按配置生成或留空。
package xcorr
