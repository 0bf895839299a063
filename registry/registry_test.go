package registry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/wgslpp/value"
)

func TestNewHasBitMasks(t *testing.T) {
	r := New()
	require.Equal(t, 64, r.Len())

	v, ok := r.Lookup("BIT_0")
	require.True(t, ok)
	assert.Equal(t, int64(1), v.IntVal())

	v, ok = r.Lookup("BIT_5")
	require.True(t, ok)
	assert.Equal(t, int64(32), v.IntVal())

	v, ok = r.Lookup("BIT_63")
	require.True(t, ok)
	assert.Equal(t, uint64(1)<<63, uint64(v.IntVal()))
}

func TestNewEmpty(t *testing.T) {
	r := NewEmpty()
	assert.Zero(t, r.Len())
	_, ok := r.Lookup("BIT_0")
	assert.False(t, ok)
}

func TestSettersOverwrite(t *testing.T) {
	r := NewEmpty()

	r.SetInt("quality", 2)
	v, ok := r.Lookup("quality")
	require.True(t, ok)
	assert.Equal(t, value.KindInt, v.Kind())
	assert.Equal(t, int64(2), v.IntVal())

	// A later set replaces both the value and the type.
	r.SetFloat("quality", 4.5)
	v, ok = r.Lookup("quality")
	require.True(t, ok)
	assert.Equal(t, value.KindFloat, v.Kind())
	assert.Equal(t, 4.5, v.FloatVal())

	r.SetBool("quality", true)
	v, ok = r.Lookup("quality")
	require.True(t, ok)
	assert.Equal(t, value.KindBool, v.Kind())
	assert.True(t, v.BoolVal())
}

func TestSnapshotIsIsolated(t *testing.T) {
	r := NewEmpty()
	r.SetInt("N", 1)

	snap := r.Snapshot()

	// Mutations after the snapshot must not leak into it.
	r.SetInt("N", 2)
	r.SetInt("M", 3)

	v, ok := snap.Lookup("N")
	require.True(t, ok)
	assert.Equal(t, int64(1), v.IntVal())
	_, ok = snap.Lookup("M")
	assert.False(t, ok)
}

// TestConcurrentAccess verifies the registry is safe under concurrent
// setters and snapshots.
func TestConcurrentAccess(t *testing.T) {
	r := New()
	numGoroutines := 100
	var wg sync.WaitGroup

	wg.Add(numGoroutines * 2)
	for i := 0; i < numGoroutines; i++ {
		go func(i int) {
			defer wg.Done()
			r.SetInt(fmt.Sprintf("G_%d", i), int64(i))
		}(i)
		go func() {
			defer wg.Done()
			snap := r.Snapshot()
			_, _ = snap.Lookup("BIT_0")
		}()
	}
	wg.Wait()

	for i := 0; i < numGoroutines; i++ {
		v, ok := r.Lookup(fmt.Sprintf("G_%d", i))
		require.True(t, ok)
		assert.Equal(t, int64(i), v.IntVal())
	}
}
