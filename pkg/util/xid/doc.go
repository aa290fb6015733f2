// Package xid 基于 Sonyflake 的分布式唯一 ID 生成。
//
// 提供实例化的 [Generator]，生成 63-bit 时间有序的唯一 ID。
// 十进制字符串形式的 ID 仅含数字，天然满足层级关联协议中
// Request-Id 的字符集约束（[A-Za-z0-9-] 加点分段），可直接用作
// xcorr 的 operation / transaction / upstream 生成器：
//
//	gen, err := xid.NewGenerator()
//	if err != nil { ... }
//	c, err := xcorr.New(
//	    xcorr.WithScheme(xcorr.SchemeHierarchical),
//	    xcorr.WithTransactionGenerator(gen.GenerateFunc()),
//	)
//
// GenerateFunc 返回的闭包在底层生成失败时返回空字符串，
// xcorr 按"生成器返回空值即致命配置错误"的契约上报。
package xid
