package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRand_Deterministic(t *testing.T) {
	a := New(42)
	b := New(42)

	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Intn(1000), b.Intn(1000))
	}
	assert.Equal(t, a.Int63n(1<<40), b.Int63n(1<<40))
	assert.Equal(t, a.Float64(), b.Float64())
}

func TestRand_Bool(t *testing.T) {
	r := New(1)
	assert.False(t, r.Bool(0.0))

	hits := 0
	for i := 0; i < 1000; i++ {
		if r.Bool(1.0) {
			hits++
		}
	}
	assert.Equal(t, 1000, hits)
}

func TestRand_Choose(t *testing.T) {
	r := New(7)
	assert.Equal(t, "", r.Choose(nil))

	items := []string{"a", "b", "c"}
	for i := 0; i < 50; i++ {
		assert.Contains(t, items, r.Choose(items))
	}
}

func TestRand_Shuffle(t *testing.T) {
	r := New(99)
	values := []string{"a", "b", "c", "d", "e"}
	original := append([]string(nil), values...)

	r.Shuffle(len(values), func(i, j int) {
		values[i], values[j] = values[j], values[i]
	})

	assert.ElementsMatch(t, original, values)
}
