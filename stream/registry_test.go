package stream

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petal-labs/oai/internal/uuidx"
)

func newTestSession(family Family, cancels *atomic.Int32) *Session {
	return &Session{
		id:     uuidx.NewString(),
		family: family,
		cancel: func() {
			if cancels != nil {
				cancels.Add(1)
			}
		},
		done: make(chan struct{}),
	}
}

func TestRegistryRegisterUnregister(t *testing.T) {
	r := NewRegistry()
	s := newTestSession(FamilyChat, nil)

	r.Register(s)
	assert.Equal(t, 1, r.Len())

	got, ok := r.Get(s.ID())
	require.True(t, ok)
	assert.Same(t, s, got)

	assert.True(t, r.Unregister(s.ID()))
	assert.Equal(t, 0, r.Len())

	// Second removal is a no-op.
	assert.False(t, r.Unregister(s.ID()))
	assert.False(t, r.Unregister("missing"))
	assert.Equal(t, 0, r.Len())

	_, ok = r.Get(s.ID())
	assert.False(t, ok)
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	const n = 200

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := newTestSession(FamilyChat, nil)
			r.Register(s)
			_ = r.Active(FamilyChat)
			r.Unregister(s.ID())
			r.Unregister(s.ID())
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, r.Len())
}

func TestRegistryUnregisterReportsOnce(t *testing.T) {
	r := NewRegistry()

	for round := 0; round < 100; round++ {
		s := newTestSession(FamilySpeech, nil)
		r.Register(s)

		var (
			wg      sync.WaitGroup
			removed atomic.Int32
			start   = make(chan struct{})
		)
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				if r.Unregister(s.ID()) {
					removed.Add(1)
				}
			}()
		}
		close(start)
		wg.Wait()

		require.Equal(t, int32(1), removed.Load(), "round %d", round)
	}
	assert.Equal(t, 0, r.Len())
}

func TestRegistryCancelAllFamily(t *testing.T) {
	r := NewRegistry()
	var chatCancels, speechCancels atomic.Int32

	chats := []*Session{
		newTestSession(FamilyChat, &chatCancels),
		newTestSession(FamilyChat, &chatCancels),
		newTestSession(FamilyChat, &chatCancels),
	}
	speech := newTestSession(FamilySpeech, &speechCancels)
	for _, s := range chats {
		r.Register(s)
	}
	r.Register(speech)

	assert.Len(t, r.Active(FamilyChat), 3)
	assert.Len(t, r.Active(FamilySpeech), 1)
	assert.Empty(t, r.Active(FamilyCompletions))

	assert.Equal(t, 3, r.CancelAll(FamilyChat))
	assert.Equal(t, int32(3), chatCancels.Load())
	assert.Equal(t, int32(0), speechCancels.Load())

	assert.Equal(t, 1, r.Len())
	got, ok := r.Get(speech.ID())
	require.True(t, ok)
	assert.Same(t, speech, got)

	// Late unregisters from the cancelled sessions' own terminal paths.
	for _, s := range chats {
		assert.False(t, r.Unregister(s.ID()))
	}
	assert.Equal(t, 0, r.CancelAll(FamilyChat))
}

func TestRegistryCancelAllRealSessions(t *testing.T) {
	r := NewRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var sessions []*Session
	for i := 0; i < 3; i++ {
		sctx, scancel := context.WithCancel(ctx)
		s := newTestSession(FamilyChat, nil)
		s.cancel = scancel
		r.Register(s)
		sessions = append(sessions, s)
		go func(s *Session) {
			<-sctx.Done()
			r.Unregister(s.ID())
			close(s.done)
		}(s)
	}

	require.Equal(t, 3, r.CancelAll(FamilyChat))
	for _, s := range sessions {
		require.NoError(t, s.Wait(context.Background()))
	}
	assert.Equal(t, 0, r.Len())
}
