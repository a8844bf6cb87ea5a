package event

// Sink receives committed domain events. The Reservation Manager holds one
// explicitly injected Sink; there is no process-wide broadcast handle.
type Sink interface {
	Emit(ev Event)
}

// Fanout multiplexes one event stream to several sinks (broadcast gateway,
// toasts, inbox). New kinds are wired once, here.
type Fanout struct {
	sinks []Sink
}

func NewFanout(sinks ...Sink) *Fanout {
	return &Fanout{sinks: sinks}
}

func (f *Fanout) Emit(ev Event) {
	for _, s := range f.sinks {
		s.Emit(ev)
	}
}
