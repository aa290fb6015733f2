package xcorr

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMatchRequestIDFormat(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{name: "带竖线单段", value: "|abc123", want: true},
		{name: "无竖线单段", value: "abc123", want: true},
		{name: "多级点分段", value: "|root.child.leaf", want: true},
		{name: "下划线结尾", value: "|abc.def_", want: true},
		{name: "点结尾", value: "|abc.def.", want: true},
		{name: "含连字符", value: "|a-b.c-d", want: true},
		{name: "非法字符", value: "|abc!def", want: false},
		{name: "连续空段", value: "|..|", want: false},
		{name: "仅竖线", value: "|", want: false},
		{name: "空串", value: "", want: false},
		{name: "竖线在中间", value: "abc|def", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matchRequestIDFormat(context.Background(), tt.value))
		})
	}
}

func TestMatchBounded_Timeout(t *testing.T) {
	// 用长输入配合极小的时间上限触发超时分支
	re := regexp.MustCompile(`^[a-z.]+$`)
	value := strings.Repeat("a.", 1<<20)

	matched := matchBounded(context.Background(), re, value, time.Nanosecond)
	assert.False(t, matched, "超时视为不匹配而非错误")
}

func TestMatchBounded_CompletesWithinTimeout(t *testing.T) {
	assert.True(t, matchBounded(context.Background(), requestIDPattern, "|abc.def", matchTimeout))
}
