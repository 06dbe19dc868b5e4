package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectIntersect(t *testing.T) {
	a := NewRect(0, 0, 100, 100)
	b := NewRect(50, 50, 200, 200)
	got := a.Intersect(b)
	assert.Equal(t, NewRect(50, 50, 100, 100), got)
	assert.Equal(t, got, b.Intersect(a), "intersection commutes")
}

func TestRectIntersectDisjoint(t *testing.T) {
	a := NewRect(0, 0, 10, 10)
	b := NewRect(20, 20, 30, 30)
	got := a.Intersect(b)
	assert.True(t, got.Empty())
	assert.GreaterOrEqual(t, got.Width(), float32(0), "never negative")
	assert.GreaterOrEqual(t, got.Height(), float32(0))
}

func TestRectEmpty(t *testing.T) {
	assert.True(t, NewRect(5, 5, 5, 10).Empty())
	assert.True(t, NewRect(5, 5, 10, 5).Empty())
	assert.False(t, NewRect(0, 0, 1, 1).Empty())
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 5, Clamp(3, 5, 10))
	assert.Equal(t, 10, Clamp(12, 5, 10))
	assert.Equal(t, 7, Clamp(7, 5, 10))
	assert.Equal(t, float32(0.5), Clamp(float32(0.5), 0, 1))
}
