package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSetGetExpire(t *testing.T) {
	c := New(time.Minute, 0)
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set("a", 1)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("a")
	assert.False(t, ok)

	c.DeleteExpired()
	assert.Zero(t, c.Count())
}

func TestGetOrSet(t *testing.T) {
	c := New(time.Minute, 0)

	actual, loaded := c.GetOrSet("k", "first")
	assert.False(t, loaded)
	assert.Equal(t, "first", actual)

	actual, loaded = c.GetOrSet("k", "second")
	assert.True(t, loaded)
	assert.Equal(t, "first", actual)
}

func TestEvictsWhenFull(t *testing.T) {
	c := New(0, 2)
	c.SetWithExpiration("short", 1, time.Second)
	c.SetWithExpiration("long", 2, time.Hour)
	c.SetWithExpiration("new", 3, time.Hour)

	assert.Equal(t, 2, c.Count())
	_, ok := c.Get("short")
	assert.False(t, ok)
	_, ok = c.Get("long")
	assert.True(t, ok)
}
