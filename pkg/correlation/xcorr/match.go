package xcorr

import (
	"context"
	"regexp"
	"time"

	"github.com/omeyang/corrkit/pkg/observability/xlog"
)

// requestIDPattern 层级协议 Request-Id 的文法。
// 可选前导 '|'，以 '-'、字母数字组成的点分段，可选 '_' 或 '.' 结尾。
var requestIDPattern = regexp.MustCompile(`^(\|)?([A-Za-z0-9-]+(\.[A-Za-z0-9-]+)?)+(_|\.)?$`)

// matchTimeout 文法校验的时间上限。
//
// Go 的 regexp 是 RE2 实现，匹配耗时与输入长度线性相关，不存在
// 灾难性回溯；仍然保留显式上限，保证对恶意构造的超长输入
// "超时即视为不匹配"的可观察语义，超时从不作为错误向上传播。
const matchTimeout = time.Second

// matchRequestIDFormat 校验 value 是否符合 Request-Id 文法。
func matchRequestIDFormat(ctx context.Context, value string) bool {
	return matchBounded(ctx, requestIDPattern, value, matchTimeout)
}

// matchBounded 在时间上限内执行正则匹配。
//
// 匹配在独立 goroutine 中执行，结果通过带缓冲的 channel 返回，
// 即使超时触发，goroutine 也会在匹配结束后正常退出，不会泄漏。
func matchBounded(ctx context.Context, re *regexp.Regexp, value string, timeout time.Duration) bool {
	done := make(chan bool, 1)
	go func() {
		done <- re.MatchString(value)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case matched := <-done:
		return matched
	case <-timer.C:
		xlog.Debug(ctx, "xcorr: request id format validation timed out, treating as no match")
		return false
	}
}
