package services

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identity(s string) string { return s }

func TestCollectionAppendMissing(t *testing.T) {
	c := NewCollection[string]()

	assert.Equal(t, 3, c.AppendMissing([]string{"a", "b", "a", "c"}, identity))
	assert.Equal(t, 1, c.AppendMissing([]string{"c", "d", "a"}, identity))
	assert.Equal(t, []string{"a", "b", "c", "d"}, c.Snapshot())
}

func TestCollectionSnapshotIsACopy(t *testing.T) {
	c := NewCollection[string]()
	c.Replace([]string{"a"})

	snapshot := c.Snapshot()
	snapshot[0] = "changed"

	assert.Equal(t, []string{"a"}, c.Snapshot())
}

func TestCollectionReplaceAndRemove(t *testing.T) {
	c := NewCollection[string]()
	c.Replace([]string{"a", "b", "a"})

	assert.Equal(t, 2, c.RemoveWhere(func(s string) bool { return s == "a" }))
	assert.Equal(t, []string{"b"}, c.Snapshot())

	c.Replace(nil)
	assert.Equal(t, 0, c.Len())
}

func TestCollectionSubscribeGetsLatestSnapshot(t *testing.T) {
	c := NewCollection[string]()
	updates, cancel := c.Subscribe()
	defer cancel()

	c.Replace([]string{"a"})
	c.AppendMissing([]string{"b"}, identity)

	latest := <-updates
	assert.Equal(t, []string{"a", "b"}, latest)

	select {
	case extra := <-updates:
		t.Fatalf("unexpected extra snapshot %v", extra)
	default:
	}
}

func TestCollectionCancelClosesChannel(t *testing.T) {
	c := NewCollection[string]()
	updates, cancel := c.Subscribe()
	cancel()
	cancel()

	_, open := <-updates
	assert.False(t, open)

	c.Replace([]string{"a"})
}

func TestCollectionConcurrentAppends(t *testing.T) {
	c := NewCollection[string]()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			batch := make([]string, 0, 50)
			for j := 0; j < 50; j++ {
				batch = append(batch, strconv.Itoa(j))
			}
			c.AppendMissing(batch, identity)
		}()
	}
	wg.Wait()

	require.Equal(t, 50, c.Len())
}
