package xid_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/corrkit/pkg/util/xid"
)

func newGenerator(t *testing.T) *xid.Generator {
	t.Helper()
	g, err := xid.NewGenerator(xid.WithMachineID(1))
	require.NoError(t, err)
	return g
}

func TestGenerator_New(t *testing.T) {
	g := newGenerator(t)

	id, err := g.New()
	require.NoError(t, err)
	assert.Positive(t, id)
}

func TestGenerator_NewString(t *testing.T) {
	g := newGenerator(t)

	s, err := g.NewString()
	require.NoError(t, err)
	require.NotEmpty(t, s)
	for _, r := range s {
		assert.True(t, r >= '0' && r <= '9', "NewString 输出应仅含数字字符: %q", s)
	}
}

func TestGenerator_Unique(t *testing.T) {
	g := newGenerator(t)

	const n = 1000
	seen := make(map[int64]struct{}, n)
	for i := 0; i < n; i++ {
		id, err := g.New()
		require.NoError(t, err)
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id after %d generations: %d", i, id)
		}
		seen[id] = struct{}{}
	}
}

func TestGenerator_ConcurrentSafety(t *testing.T) {
	g := newGenerator(t)

	const goroutines = 8
	const perGoroutine = 100

	var mu sync.Mutex
	seen := make(map[int64]struct{}, goroutines*perGoroutine)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				id, err := g.New()
				if err != nil {
					t.Error(err)
					return
				}
				mu.Lock()
				seen[id] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, goroutines*perGoroutine, "并发生成不应产生重复 ID")
}

func TestGenerator_NilSafety(t *testing.T) {
	var nilGen *xid.Generator
	_, err := nilGen.New()
	assert.ErrorIs(t, err, xid.ErrNilGenerator)

	var zero xid.Generator
	_, err = zero.NewString()
	assert.ErrorIs(t, err, xid.ErrNilGenerator)

	s := zero.GenerateFunc()()
	assert.Empty(t, s, "不可用实例的生成函数返回空字符串")
}

func TestGenerator_GenerateFunc(t *testing.T) {
	g := newGenerator(t)

	generate := g.GenerateFunc()
	first := generate()
	second := generate()
	assert.NotEmpty(t, first)
	assert.NotEmpty(t, second)
	assert.NotEqual(t, first, second)
}

func TestNewGenerator_CheckMachineIDRejects(t *testing.T) {
	_, err := xid.NewGenerator(
		xid.WithMachineID(7),
		xid.WithCheckMachineID(func(uint16) bool { return false }),
	)
	assert.ErrorIs(t, err, xid.ErrInvalidConfig)
}

func TestNewGenerator_CheckMachineIDAccepts(t *testing.T) {
	var checked uint16
	g, err := xid.NewGenerator(
		xid.WithMachineID(42),
		xid.WithCheckMachineID(func(id uint16) bool {
			checked = id
			return true
		}),
	)
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.Equal(t, uint16(42), checked)
}
