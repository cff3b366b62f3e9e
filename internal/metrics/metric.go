package metrics

import "time"

// Sample is what the engine reports for one Tick.
type Sample struct {
	At          time.Duration
	Stepped     bool
	Drawn       bool
	Forming     bool
	StepTime    time.Duration
	Convergence float64
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

// Collect reads every metric into a name-keyed map.
func Collect(ms []Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}

// Standard is the set the bench command records.
func Standard(settleThreshold float64) []Metric {
	return []Metric{
		NewStepTime(),
		NewPeakStepTime(),
		NewSteppedRatio(),
		NewConvergence(),
		NewSettleTime(settleThreshold),
	}
}
