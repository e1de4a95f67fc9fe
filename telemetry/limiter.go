package telemetry

// LogLimiter lets a repeating message through at most once per Interval.
// Times are seconds on any monotonic clock.
type LogLimiter struct {
	Interval float64

	last       float64
	primed     bool
	suppressed int
}

// NewLogLimiter creates a limiter with the given interval in seconds.
func NewLogLimiter(interval float64) *LogLimiter {
	return &LogLimiter{Interval: interval}
}

// Allow reports whether a message at now may be logged, and how many were
// dropped since the last one that was.
func (l *LogLimiter) Allow(now float64) (bool, int) {
	if l.primed && now-l.last < l.Interval {
		l.suppressed++
		return false, 0
	}
	dropped := l.suppressed
	l.last = now
	l.primed = true
	l.suppressed = 0
	return true, dropped
}
