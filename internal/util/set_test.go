package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringSet_Basics(t *testing.T) {
	s := NewStringSet([]string{"b", "a", "c"})
	assert.Equal(t, 3, s.Len())
	assert.True(t, s.Has("a"))
	assert.False(t, s.Has("z"))
	assert.Equal(t, []string{"a", "b", "c"}, s.Elements())

	s.Remove("b")
	assert.False(t, s.Has("b"))
	assert.Equal(t, 2, s.Len())
}

func TestStringSet_SetOperations(t *testing.T) {
	a := NewStringSet([]string{"a", "b"})
	b := NewStringSet([]string{"b", "c"})

	assert.Equal(t, []string{"a", "b", "c"}, a.Union(b).Elements())
	assert.Equal(t, []string{"b"}, a.Intersection(b).Elements())
	assert.Equal(t, []string{"a"}, a.Difference(b).Elements())
}

func TestStringSet_Equal(t *testing.T) {
	a := NewStringSet([]string{"x", "y"})
	b := NewStringSet([]string{"y", "x"})
	c := NewStringSet([]string{"x"})

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal("not a set"))
}

func TestStringSet_CopyIsIndependent(t *testing.T) {
	a := NewStringSet([]string{"a"})
	b := a.Copy()
	b.Add("extra")

	assert.False(t, a.Has("extra"))
	assert.True(t, b.Has("extra"))
}

func TestSVSet_Basics(t *testing.T) {
	s := NewSVSet[int]()
	s.Set("one", 1)
	s.Set("two", 2)

	assert.True(t, s.Has("one"))
	assert.Equal(t, 2, s.Get("two"))
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"one", "two"}, s.Keys().Elements())

	s.Remove("one")
	assert.False(t, s.Has("one"))
}

func TestStack_PushPopPeek(t *testing.T) {
	var s Stack[string]
	assert.True(t, s.Empty())

	s.Push("a")
	s.Push("b")
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, "b", s.Peek())

	popped := s.Pop()
	assert.Equal(t, "b", popped)
	assert.Equal(t, "a", s.Peek())
	assert.Equal(t, 1, s.Len())
}

func TestOrderedKeys_Sorted(t *testing.T) {
	m := map[string]int{"z": 1, "a": 2, "m": 3}
	assert.Equal(t, []string{"a", "m", "z"}, OrderedKeys(m))
}

func TestArticleFor(t *testing.T) {
	assert.Equal(t, "a", ArticleFor("token", false))
	assert.Equal(t, "an", ArticleFor("identifier", false))
	assert.Equal(t, "An", ArticleFor("identifier", true))
}

func TestMakeTextList(t *testing.T) {
	assert.Equal(t, "", MakeTextList(nil))
	assert.Equal(t, "a", MakeTextList([]string{"a"}))
	assert.Equal(t, "a and b", MakeTextList([]string{"a", "b"}))
	assert.Equal(t, "a, b, and c", MakeTextList([]string{"a", "b", "c"}))
}

func TestNextStateName_Sequence(t *testing.T) {
	name := ""
	seq := make([]string, 0, 30)
	for i := 0; i < 28; i++ {
		name = NextStateName(name)
		seq = append(seq, name)
	}
	assert.Equal(t, "A", seq[0])
	assert.Equal(t, "Z", seq[25])
	assert.Equal(t, "AA", seq[26])
	assert.Equal(t, "AB", seq[27])
}
