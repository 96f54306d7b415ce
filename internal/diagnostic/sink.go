package diagnostic

// Discard is a Sink that drops everything.
var Discard Sink = discard{}

type discard struct{}

func (discard) Info(string)    {}
func (discard) Warn(string)    {}
func (discard) Error(string)   {}
func (discard) Success(string) {}

type tee []Sink

// Tee returns a Sink that forwards every diagnostic to each of sinks in order.
// Nil sinks are skipped.
func Tee(sinks ...Sink) Sink {
	out := make(tee, 0, len(sinks))

	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}

	return out
}

func (t tee) Info(msg string) {
	for _, s := range t {
		s.Info(msg)
	}
}

func (t tee) Warn(msg string) {
	for _, s := range t {
		s.Warn(msg)
	}
}

func (t tee) Error(msg string) {
	for _, s := range t {
		s.Error(msg)
	}
}

func (t tee) Success(msg string) {
	for _, s := range t {
		s.Success(msg)
	}
}
