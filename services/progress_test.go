package services

import (
	"bytes"
	"io"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressReaderIsMonotonicAndEndsAt100(t *testing.T) {
	data := bytes.Repeat([]byte("x"), 1000)
	var seen []int

	reader := newProgressReader(iotest.OneByteReader(bytes.NewReader(data)), int64(len(data)), func(p int) {
		seen = append(seen, p)
	})
	_, err := io.Copy(io.Discard, reader)
	require.NoError(t, err)

	require.NotEmpty(t, seen)
	assert.Equal(t, 99, seen[len(seen)-1], "100 must wait for the upload to finish")

	reader.done()
	reader.done()
	assert.Equal(t, 100, seen[len(seen)-1])

	for i := 1; i < len(seen); i++ {
		assert.Greater(t, seen[i], seen[i-1])
	}
	for _, p := range seen {
		assert.True(t, p >= 0 && p <= 100, p)
	}
}

func TestProgressReaderUnknownSize(t *testing.T) {
	var seen []int
	reader := newProgressReader(bytes.NewReader([]byte("abc")), 0, func(p int) { seen = append(seen, p) })

	_, err := io.ReadAll(reader)
	require.NoError(t, err)
	reader.done()

	assert.Equal(t, []int{99, 100}, seen)
}

func TestProgressReaderWithoutCallback(t *testing.T) {
	reader := newProgressReader(bytes.NewReader([]byte("abc")), 3, nil)
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	reader.done()
	assert.Equal(t, "abc", string(data))
}

func TestProgressTracker(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tracker := NewProgressTracker()
	tracker.now = func() time.Time { return now }

	tracker.Set("", 50)
	_, ok := tracker.Get("")
	assert.False(t, ok)

	tracker.Set("a", 10)
	tracker.Set("a", 40)
	percent, ok := tracker.Get("a")
	require.True(t, ok)
	assert.Equal(t, 40, percent)

	_, ok = tracker.Get("missing")
	assert.False(t, ok)

	now = now.Add(11 * time.Minute)
	_, ok = tracker.Get("a")
	assert.False(t, ok, "stale entries expire")

	tracker.Set("b", 1)
	assert.NotContains(t, tracker.entries, "a")
}

func TestProgressKeyScopesUploadsToTheirOwner(t *testing.T) {
	tracker := NewProgressTracker()

	tracker.Set(ProgressKey("alice", "up-1"), 70)
	_, ok := tracker.Get(ProgressKey("bob", "up-1"))
	assert.False(t, ok)

	percent, ok := tracker.Get(ProgressKey("alice", "up-1"))
	require.True(t, ok)
	assert.Equal(t, 70, percent)

	assert.Empty(t, ProgressKey("alice", ""))

	tracker.Delete(ProgressKey("alice", "up-1"))
	_, ok = tracker.Get(ProgressKey("alice", "up-1"))
	assert.False(t, ok)
}
