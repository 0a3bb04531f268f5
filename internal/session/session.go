// Package session holds the dataset currently loaded by a caller.
package session

import (
	"errors"
	"sync/atomic"

	"github.com/KaramelBytes/synthlab/internal/analysis"
)

var (
	// ErrBusy is returned by Begin while another upload is in flight.
	ErrBusy = errors.New("another upload is in progress")
	// ErrNoDataset is returned by Current when nothing has been loaded.
	ErrNoDataset = errors.New("no dataset loaded")
)

// Session keeps at most one Dataset. Readers always see either the previous
// or the next dataset, never a partially built one.
type Session struct {
	busy    atomic.Bool
	current atomic.Pointer[analysis.Dataset]
}

// New returns an empty session.
func New() *Session { return &Session{} }

// Begin marks an upload as in flight. Every successful Begin must be
// followed by Commit or Abort.
func (s *Session) Begin() error {
	if !s.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	return nil
}

// Commit publishes ds as the current dataset and ends the upload.
func (s *Session) Commit(ds *analysis.Dataset) {
	s.current.Store(ds)
	s.busy.Store(false)
}

// Abort ends the upload and keeps the previous dataset.
func (s *Session) Abort() { s.busy.Store(false) }

// Busy reports whether an upload is in flight.
func (s *Session) Busy() bool { return s.busy.Load() }

// Current returns the loaded dataset.
func (s *Session) Current() (*analysis.Dataset, error) {
	ds := s.current.Load()
	if ds == nil {
		return nil, ErrNoDataset
	}
	return ds, nil
}

// Clear drops the loaded dataset.
func (s *Session) Clear() { s.current.Store(nil) }
