package slots

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRepositoryContract checks the behaviour every backend must share.
func testRepositoryContract(t *testing.T, newRepo func(t *testing.T) Repository) {
	ctx := context.Background()

	t.Run("get absent returns nil nil", func(t *testing.T) {
		r := newRepo(t)
		v, err := r.Get(ctx, "absent")
		require.NoError(t, err)
		require.Nil(t, v)
	})

	t.Run("set then get, upsert overwrites", func(t *testing.T) {
		r := newRepo(t)
		require.NoError(t, r.Set(ctx, "theme", []byte(`"light"`)))
		require.NoError(t, r.Set(ctx, "theme", []byte(`"dark"`)))

		v, err := r.Get(ctx, "theme")
		require.NoError(t, err)
		assert.Equal(t, []byte(`"dark"`), v)
	})

	t.Run("set many writes every slot", func(t *testing.T) {
		r := newRepo(t)
		require.NoError(t, r.SetMany(ctx, map[string][]byte{
			"scan_history":  []byte(`[{"barcode":"1"}]`),
			"notifications": []byte(`[]`),
		}))

		m, err := r.List(ctx)
		require.NoError(t, err)
		assert.Len(t, m, 2)
		assert.Equal(t, []byte(`[{"barcode":"1"}]`), m["scan_history"])
		assert.Equal(t, []byte(`[]`), m["notifications"])
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		r := newRepo(t)
		require.NoError(t, r.Set(ctx, "x", []byte(`1`)))
		require.NoError(t, r.Delete(ctx, "x"))
		require.NoError(t, r.Delete(ctx, "x"))

		v, err := r.Get(ctx, "x")
		require.NoError(t, err)
		require.Nil(t, v)
	})

	t.Run("clear removes all keys", func(t *testing.T) {
		r := newRepo(t)
		require.NoError(t, r.Set(ctx, "a", []byte(`1`)))
		require.NoError(t, r.Set(ctx, "b", []byte(`2`)))
		require.NoError(t, r.Clear(ctx))

		m, err := r.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, m)
	})
}

func TestMemoryRepository_Contract(t *testing.T) {
	testRepositoryContract(t, func(*testing.T) Repository { return NewMemoryRepository() })
}

func TestMemoryRepository_CopiesValues(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	in := []byte(`[1]`)
	require.NoError(t, r.Set(ctx, "k", in))
	in[1] = '9'

	out, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[1]`), out)

	out[1] = '7'
	again, _ := r.Get(ctx, "k")
	assert.Equal(t, []byte(`[1]`), again)
}
