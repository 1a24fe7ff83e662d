package stream

import "github.com/alphadose/haxmap"

// Registry tracks the sessions whose connections are still open so they can
// be looked up or cancelled from outside the delivery path.
//
// A session is registered when its request is issued and removed by its own
// terminal path. Registry is safe for concurrent use; removal is idempotent.
type Registry struct {
	sessions *haxmap.Map[string, *Session]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: haxmap.New[string, *Session](),
	}
}

// Register adds s to the active set.
func (r *Registry) Register(s *Session) {
	r.sessions.Set(s.id, s)
}

// Unregister removes the session with the given id. It reports whether the
// session was present; removing an absent session is a no-op.
func (r *Registry) Unregister(id string) bool {
	_, ok := r.sessions.GetAndDel(id)
	return ok
}

// Get returns the active session with the given id.
func (r *Registry) Get(id string) (*Session, bool) {
	return r.sessions.Get(id)
}

// Len returns the number of active sessions.
func (r *Registry) Len() int {
	return int(r.sessions.Len())
}

// Active returns a snapshot of the active sessions of a family.
func (r *Registry) Active(family Family) []*Session {
	var out []*Session
	r.sessions.ForEach(func(_ string, s *Session) bool {
		if s.family == family {
			out = append(out, s)
		}
		return true
	})
	return out
}

// CancelAll requests cancellation of every active session of a family and
// removes them from the registry. It returns the number of sessions
// cancelled. Cancellation is cooperative: each session still delivers its
// terminal event from its own goroutine.
func (r *Registry) CancelAll(family Family) int {
	snapshot := r.Active(family)
	for _, s := range snapshot {
		s.Cancel()
		r.Unregister(s.id)
	}
	return len(snapshot)
}
