package telemetry

import "testing"

func TestLogLimiter(t *testing.T) {
	l := NewLogLimiter(1)

	steps := []struct {
		now     float64
		allow   bool
		dropped int
	}{
		{0, true, 0},
		{0.1, false, 0},
		{0.5, false, 0},
		{0.99, false, 0},
		{1.0, true, 3},
		{1.2, false, 0},
		{5, true, 1},
		{6.5, true, 0},
	}

	for i, s := range steps {
		ok, dropped := l.Allow(s.now)
		if ok != s.allow || dropped != s.dropped {
			t.Errorf("step %d at %.2f: expected (%v, %d), got (%v, %d)", i, s.now, s.allow, s.dropped, ok, dropped)
		}
	}
}
