package collections_test

import (
	"testing"

	"bennypowers.dev/cssa/internal/collections"
	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	t.Run("duplicates collapse", func(t *testing.T) {
		s := collections.NewSet("a", "b", "a", "c", "b")
		assert.Len(t, s, 3)
		assert.True(t, s.Has("a"))
		assert.False(t, s.Has("d"))
	})

	t.Run("members", func(t *testing.T) {
		s := collections.NewSet(1, 2, 3)
		assert.ElementsMatch(t, []int{1, 2, 3}, s.Members())
	})

	t.Run("string", func(t *testing.T) {
		s := collections.NewSet("only")
		assert.Equal(t, "[only]", s.String())
	})
}

func TestOrderedSet(t *testing.T) {
	t.Run("keeps first insertion order", func(t *testing.T) {
		s := collections.NewOrderedSet("$b", "$a")
		s.Add("$c", "$b")
		assert.Equal(t, []string{"$b", "$a", "$c"}, s.Members())
		assert.Equal(t, 3, s.Len())
	})

	t.Run("zero value is usable", func(t *testing.T) {
		var s collections.OrderedSet[string]
		assert.False(t, s.Has("x"))
		s.Add("x")
		assert.True(t, s.Has("x"))
	})

	t.Run("nil set is empty", func(t *testing.T) {
		var s *collections.OrderedSet[string]
		assert.Equal(t, 0, s.Len())
		assert.Nil(t, s.Members())
		assert.False(t, s.Has("x"))
	})

	t.Run("members and clones are copies", func(t *testing.T) {
		s := collections.NewOrderedSet("a")
		members := s.Members()
		members[0] = "mutated"
		clone := s.Clone()
		clone.Add("b")
		assert.Equal(t, []string{"a"}, s.Members())
		assert.Equal(t, []string{"a", "b"}, clone.Members())
	})
}
