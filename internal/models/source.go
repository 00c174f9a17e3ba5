package models

import (
	"fmt"
	"time"
)

// SourceState is the load state of one independently fetched piece of data
type SourceState string

const (
	// SourceIdle means no load was ever requested
	SourceIdle SourceState = "idle"
	// SourceLoading means a load is in flight
	SourceLoading SourceState = "loading"
	// SourceLoaded means the last load succeeded
	SourceLoaded SourceState = "loaded"
	// SourceError means the last load failed; previously loaded data is kept
	SourceError SourceState = "error"
)

// Source tracks Idle -> Loading -> Loaded | Error for one data source.
// At most one load is in flight at a time.
type Source struct {
	Name    string
	State   SourceState
	LastErr string
	Updated time.Time
	hasData bool
}

// NewSource returns an idle source
func NewSource(name string) Source {
	return Source{Name: name, State: SourceIdle}
}

// Begin moves the source to Loading. It returns false when a load is
// already in flight, in which case the caller must not start another one.
func (s *Source) Begin() bool {
	if s.State == SourceLoading {
		return false
	}
	s.State = SourceLoading
	return true
}

// Finish settles an in-flight load
func (s *Source) Finish(err error, now time.Time) {
	s.Updated = now
	if err != nil {
		s.State = SourceError
		s.LastErr = err.Error()
		return
	}
	s.State = SourceLoaded
	s.LastErr = ""
	s.hasData = true
}

// HasData reports whether at least one load ever succeeded
func (s Source) HasData() bool {
	return s.hasData
}

// Busy reports whether a load is in flight
func (s Source) Busy() bool {
	return s.State == SourceLoading
}

func (s Source) String() string {
	if s.State == SourceError {
		return fmt.Sprintf("%s: %s (%s)", s.Name, s.State, s.LastErr)
	}
	return fmt.Sprintf("%s: %s", s.Name, s.State)
}
