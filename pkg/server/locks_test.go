package server

import (
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmcode/inr-assistant/pkg/store"
)

func TestUserLocksReleaseEntries(t *testing.T) {
	var l userLocks
	for i := 0; i < 100; i++ {
		unlock := l.lock(fmt.Sprintf("user-%d", i))
		unlock()
	}
	assert.Equal(t, 0, l.len())
}

func TestUserLocksSerializeOneUser(t *testing.T) {
	var l userLocks
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		active  int
		maxSeen int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.lock("u1")
			defer unlock()

			mu.Lock()
			active++
			if active > maxSeen {
				maxSeen = active
			}
			mu.Unlock()

			time.Sleep(5 * time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Equal(t, 0, l.len())
}

func TestUserLocksKeepEntryWhileWaiting(t *testing.T) {
	var l userLocks
	unlock := l.lock("u1")

	acquired := make(chan func())
	go func() { acquired <- l.lock("u1") }()

	require.Eventually(t, func() bool {
		l.mu.Lock()
		defer l.mu.Unlock()
		return l.users["u1"] != nil && l.users["u1"].refs == 2
	}, time.Second, time.Millisecond)

	unlock()
	second := <-acquired
	assert.Equal(t, 1, l.len())
	second()
	assert.Equal(t, 0, l.len())
}

func TestHandlerDropsUserLocksAfterRequests(t *testing.T) {
	f := newFixture(t, store.NewMemory(), nil)

	for i := 0; i < 20; i++ {
		uid := fmt.Sprintf("u%d", i)
		w := f.do(t, "POST", "/api/measurements", uid, "", map[string]interface{}{"date": "2026-10-18", "inr": 2.4, "dose": 5})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	assert.Equal(t, 0, f.handler.locks.len())
}
