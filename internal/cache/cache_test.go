package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCache_GetSet(t *testing.T) {
	c := New[[]string](time.Hour, time.Minute)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("k", []string{"a"})
	v, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, []string{"a"}, v)
	assert.Equal(t, 1, c.Len())
}

func TestCache_Expires(t *testing.T) {
	c := New[int](20*time.Millisecond, time.Hour)
	c.Set("k", 1)

	assert.Eventually(t, func() bool {
		_, ok := c.Get("k")
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "python, sql_0_1000000", Key(" python, sql ", 0, 1000000))
	assert.NotEqual(t, Key("go", 0, 10), Key("go", 0, 11))
}
