package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreSetGet(t *testing.T) {
	s := NewStore(time.Hour)
	defer s.Stop()

	s.Set("k", "v", time.Minute)

	got, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", got)
}

func TestStoreMissOnUnknownKey(t *testing.T) {
	s := NewStore(time.Hour)
	defer s.Stop()

	_, ok := s.Get("nope")
	assert.False(t, ok)
}

func TestStoreExpiryEvictsOnGet(t *testing.T) {
	s := NewStore(time.Hour)
	defer s.Stop()

	s.Set("k", "v", 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	_, ok := s.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestStoreBackgroundSweep(t *testing.T) {
	s := NewStore(20 * time.Millisecond)
	defer s.Stop()

	s.Set("a", 1, 5*time.Millisecond)
	s.Set("b", 2, time.Hour)

	assert.Eventually(t, func() bool {
		return s.Len() == 1
	}, time.Second, 10*time.Millisecond)

	got, ok := s.Get("b")
	require.True(t, ok)
	assert.Equal(t, 2, got)
}

func TestStoreDelete(t *testing.T) {
	s := NewStore(time.Hour)
	defer s.Stop()

	s.Set("k", "v", time.Minute)
	s.Delete("k")

	_, ok := s.Get("k")
	assert.False(t, ok)
}
