package metrics

import "time"

// StepTime is the mean simulation cost of stepped frames, in milliseconds.
type StepTime struct {
	name    string
	sum     time.Duration
	samples int
}

func NewStepTime() *StepTime {
	return &StepTime{name: "step_ms"}
}

func (s *StepTime) Name() string { return s.name }

func (s *StepTime) Observe(x Sample) {
	if !x.Stepped {
		return
	}
	s.sum += x.StepTime
	s.samples++
}

func (s *StepTime) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return float64(s.sum) / float64(s.samples) / float64(time.Millisecond)
}

func (s *StepTime) Reset() {
	s.sum = 0
	s.samples = 0
}

type PeakStepTime struct {
	name string
	peak time.Duration
}

func NewPeakStepTime() *PeakStepTime {
	return &PeakStepTime{name: "peak_step_ms"}
}

func (p *PeakStepTime) Name() string { return p.name }

func (p *PeakStepTime) Observe(x Sample) {
	if x.Stepped && x.StepTime > p.peak {
		p.peak = x.StepTime
	}
}

func (p *PeakStepTime) Value() float64 { return float64(p.peak) / float64(time.Millisecond) }

func (p *PeakStepTime) Reset() { p.peak = 0 }

// SteppedRatio is the share of ticks that advanced the simulation.
type SteppedRatio struct {
	name    string
	stepped int
	samples int
}

func NewSteppedRatio() *SteppedRatio {
	return &SteppedRatio{name: "stepped_ratio"}
}

func (s *SteppedRatio) Name() string { return s.name }

func (s *SteppedRatio) Observe(x Sample) {
	s.samples++
	if x.Stepped {
		s.stepped++
	}
}

func (s *SteppedRatio) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return float64(s.stepped) / float64(s.samples)
}

func (s *SteppedRatio) Reset() {
	s.stepped = 0
	s.samples = 0
}
