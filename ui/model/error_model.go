package model

import "sync"

// ErrorModel holds the error that ended the session. A fatal error stays set
// until the user retries; it is never cleared automatically.
type ErrorModel struct {
	mu         sync.Mutex
	fatalError error
}

func NewErrorModel() *ErrorModel { return &ErrorModel{} }

// SetFatal records err. A nil err is ignored; use Clear to reset.
func (m *ErrorModel) SetFatal(err error) {
	if m == nil || err == nil {
		return
	}
	m.mu.Lock()
	m.fatalError = err
	m.mu.Unlock()
}

func (m *ErrorModel) Fatal() error {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fatalError
}

func (m *ErrorModel) Clear() {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.fatalError = nil
	m.mu.Unlock()
}
