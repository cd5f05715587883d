package clockx

import "time"

// Clock abstracts wall-clock reads so services can be tested against
// deterministic time.
type Clock interface {
	Now() time.Time
}

// System is the production clock backed by time.Now.
type System struct{}

// New returns a System clock.
func New() System { return System{} }

// Now returns the current system time in UTC.
func (System) Now() time.Time { return time.Now().UTC() }

// Fixed is a test clock that returns a settable instant.
type Fixed struct {
	T time.Time
}

// Now returns the configured instant.
func (f *Fixed) Now() time.Time { return f.T }

// Advance moves the fixed clock forward by d.
func (f *Fixed) Advance(d time.Duration) { f.T = f.T.Add(d) }
