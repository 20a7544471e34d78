package selection

// Suppress opens a suppression scope and returns its release function.
// Mutations inside the scope apply immediately but do not notify. Calling
// release ends the scope and fires exactly one notification if the selection
// differs from what it was when the scope opened. release is idempotent and
// meant to be deferred so it runs on every exit path, panics included.
//
// Scopes do not nest: Suppress inside an active scope returns a no-op release
// and the outer scope decides whether to notify.
func (s *Store) Suppress() (release func()) {
	if s.suppressed {
		return func() {}
	}
	s.suppressed = true
	before := s.snapshot()
	done := false
	return func() {
		if done {
			return
		}
		done = true
		s.suppressed = false
		if !sameSet(before, s.selected) {
			s.notify()
		}
	}
}

// Suppressed reports whether a suppression scope is active.
func (s *Store) Suppressed() bool {
	return s.suppressed
}

// WithNotificationsSuppressed runs fn inside a suppression scope and returns
// its error. The scope is released even if fn panics.
func (s *Store) WithNotificationsSuppressed(fn func() error) error {
	release := s.Suppress()
	defer release()
	return fn()
}
