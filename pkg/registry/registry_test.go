// pkg/registry/registry_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test the multi-valued generic registry

package registry_test

import (
	"sync"
	"testing"

	"github.com/arthur-debert/clickhooks/pkg/errors"
	"github.com/arthur-debert/clickhooks/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	File string
}

func TestGroup(t *testing.T) {
	g := registry.New[item]()

	require.NoError(t, g.Add("b", item{File: "b-1.hook"}))
	require.NoError(t, g.Add("a", item{File: "a.hook"}))
	require.NoError(t, g.Add("b", item{File: "b-2.hook"}))

	t.Run("get_keeps_insertion_order", func(t *testing.T) {
		got, err := g.Get("b")
		require.NoError(t, err)
		assert.Equal(t, []item{{File: "b-1.hook"}, {File: "b-2.hook"}}, got)
	})

	t.Run("get_missing", func(t *testing.T) {
		_, err := g.Get("c")
		assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
	})

	t.Run("names_and_all", func(t *testing.T) {
		assert.Equal(t, []string{"a", "b"}, g.Names())
		assert.Equal(t, []item{{File: "a.hook"}, {File: "b-1.hook"}, {File: "b-2.hook"}}, g.All())
		assert.Len(t, g.All(), 3)
		assert.True(t, g.Has("a"))
		assert.False(t, g.Has("c"))
	})

	t.Run("empty_name_rejected", func(t *testing.T) {
		err := g.Add("", item{})
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
		assert.Panics(t, func() { registry.MustAdd(g, "", item{}) })
	})

	t.Run("returned_slice_is_a_copy", func(t *testing.T) {
		got, err := g.Get("a")
		require.NoError(t, err)
		got[0].File = "changed"
		again, _ := g.Get("a")
		assert.Equal(t, "a.hook", again[0].File)
	})
}

func TestGroup_ConcurrentAdd(t *testing.T) {
	g := registry.New[int]()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			registry.MustAdd(g, "n", i)
		}(i)
	}
	wg.Wait()

	got, err := g.Get("n")
	require.NoError(t, err)
	assert.Len(t, got, 50)
}
