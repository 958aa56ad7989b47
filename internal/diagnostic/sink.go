package diagnostic

// Sink accumulates reports raised during a single compilation, in the order
// they were raised.
type Sink struct {
	reports []*Report
}

// NewSink creates an empty sink.
func NewSink() *Sink { return &Sink{} }

// Add appends a report.
func (s *Sink) Add(r *Report) { s.reports = append(s.reports, r) }

// All returns every report raised so far.
func (s *Sink) All() []*Report { return s.reports }

// HasErrors reports whether any diagnostic has been raised.
func (s *Sink) HasErrors() bool { return len(s.reports) > 0 }
