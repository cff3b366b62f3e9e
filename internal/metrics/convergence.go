package metrics

import (
	"math"
	"time"
)

// Convergence is the most recent mean distance to target.
type Convergence struct {
	name  string
	last  float64
	valid bool
}

func NewConvergence() *Convergence {
	return &Convergence{name: "convergence"}
}

func (c *Convergence) Name() string { return c.name }

func (c *Convergence) Observe(x Sample) {
	if x.Stepped {
		c.last = x.Convergence
		c.valid = true
	}
}

func (c *Convergence) Value() float64 {
	if !c.valid {
		return math.NaN()
	}
	return c.last
}

func (c *Convergence) Reset() {
	c.last = 0
	c.valid = false
}

// SettleTime measures, in milliseconds, how long the swarm took to get
// within threshold of its targets after it last started forming. It stays
// NaN until the swarm has settled once.
type SettleTime struct {
	name      string
	threshold float64
	forming   bool
	start     time.Duration
	settled   bool
	value     float64
}

func NewSettleTime(threshold float64) *SettleTime {
	return &SettleTime{name: "settle_ms", threshold: threshold, value: math.NaN()}
}

func (s *SettleTime) Name() string { return s.name }

func (s *SettleTime) Observe(x Sample) {
	if !x.Forming {
		s.forming = false
		return
	}
	if !s.forming {
		s.forming = true
		s.settled = false
		s.start = x.At
	}
	if !s.settled && x.Stepped && x.Convergence <= s.threshold {
		s.settled = true
		s.value = float64(x.At-s.start) / float64(time.Millisecond)
	}
}

func (s *SettleTime) Value() float64 { return s.value }

func (s *SettleTime) Reset() {
	s.forming = false
	s.settled = false
	s.value = math.NaN()
}
