package sched

// Limits bounds the work done by Analyze and Simulate.
type Limits struct {
	MaxIterations int // fixed-point iterations per task before ErrNonConvergent
	MaxTraceUnits int // largest hyperperiod Simulate will expand
}

const (
	defaultMaxIterations = 1000
	defaultMaxTraceUnits = 100000
)

// DefaultLimits returns the limits used when nothing is configured.
func DefaultLimits() Limits {
	return Limits{
		MaxIterations: defaultMaxIterations,
		MaxTraceUnits: defaultMaxTraceUnits,
	}
}

// normalized replaces non-positive fields with their defaults.
func (l Limits) normalized() Limits {
	if l.MaxIterations <= 0 {
		l.MaxIterations = defaultMaxIterations
	}
	if l.MaxTraceUnits <= 0 {
		l.MaxTraceUnits = defaultMaxTraceUnits
	}
	return l
}
