package usecase

import "sync"

// Session is the typed hand-off between the review and results flows. It
// replaces an untyped storage key with an explicit contract: the upload step
// is the single writer, any number of consumers may read, and a new upload
// overwrites the previous reference.
type Session struct {
	mu  sync.RWMutex
	ref string
}

func NewSession() *Session {
	return &Session{}
}

// SetDocumentRef stores the reference of the most recently uploaded document.
func (s *Session) SetDocumentRef(ref string) {
	s.mu.Lock()
	s.ref = ref
	s.mu.Unlock()
}

// DocumentRef returns the current document reference, and whether one is set.
func (s *Session) DocumentRef() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ref, s.ref != ""
}

// Clear discards the current document reference.
func (s *Session) Clear() {
	s.mu.Lock()
	s.ref = ""
	s.mu.Unlock()
}
