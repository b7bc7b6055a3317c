package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKV_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	kv := NewKV()

	v, err := kv.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, kv.Set(ctx, "k", []byte(`"v"`)))
	v, err = kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `"v"`, string(v))

	require.NoError(t, kv.Delete(ctx, "k", "never-set"))
	v, err = kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestKV_ValuesAreCopied(t *testing.T) {
	ctx := context.Background()
	kv := NewKV()

	buf := []byte("abc")
	require.NoError(t, kv.Set(ctx, "k", buf))
	buf[0] = 'z'

	v, _ := kv.Get(ctx, "k")
	assert.Equal(t, "abc", string(v))
}

func TestKV_IndexOrdering(t *testing.T) {
	ctx := context.Background()
	kv := NewKV()

	require.NoError(t, kv.IndexAdd(ctx, "idx", 1, "old"))
	require.NoError(t, kv.IndexAdd(ctx, "idx", 3, "new"))
	require.NoError(t, kv.IndexAdd(ctx, "idx", 2, "mid"))

	members, err := kv.IndexMembers(ctx, "idx")
	require.NoError(t, err)
	assert.Equal(t, []string{"new", "mid", "old"}, members)

	// re-adding updates the score instead of duplicating
	require.NoError(t, kv.IndexAdd(ctx, "idx", 10, "old"))
	members, _ = kv.IndexMembers(ctx, "idx")
	assert.Equal(t, []string{"old", "new", "mid"}, members)

	require.NoError(t, kv.IndexRemove(ctx, "idx", "new"))
	members, _ = kv.IndexMembers(ctx, "idx")
	assert.Equal(t, []string{"old", "mid"}, members)
}

func TestKV_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	kv := NewKV()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = kv.Set(ctx, fmt.Sprintf("k%d", i), []byte("1"))
			_ = kv.IndexAdd(ctx, "idx", float64(i), fmt.Sprintf("m%d", i))
		}(i)
		go func(i int) {
			defer wg.Done()
			_, _ = kv.Get(ctx, fmt.Sprintf("k%d", i))
			_, _ = kv.IndexMembers(ctx, "idx")
		}(i)
	}
	wg.Wait()

	members, err := kv.IndexMembers(ctx, "idx")
	require.NoError(t, err)
	assert.Len(t, members, 50)
}
