package swarm

import (
	"math"
	"math/rand"
	"time"
)

type Simulator struct {
	p      *Particles
	params Params
	rng    *rand.Rand
	limits [3]float64
	steps  int
}

func NewSimulator(p *Particles, params Params, rng *rand.Rand) *Simulator {
	return &Simulator{p: p, params: params, rng: rng, limits: params.Limits()}
}

func (s *Simulator) Particles() *Particles { return s.p }
func (s *Simulator) Params() Params        { return s.params }
func (s *Simulator) Steps() int            { return s.steps }

// Step advances every particle by one frame. The regime is chosen from mode
// on every call; nothing is allocated.
func (s *Simulator) Step(now time.Duration, mode Mode, sh Shimmer) {
	if mode == Forming {
		s.form(now, sh)
	} else {
		s.wander()
	}
	s.steps++
}

func (s *Simulator) wander() {
	pos, vel := s.p.Position, s.p.Velocity
	acc := [3]float64{s.params.WanderAccel, s.params.WanderAccel, s.params.WanderAccelZ}
	rest := s.params.Restitution
	n := s.p.Len()

	for i := 0; i < n; i++ {
		i3 := i * 3
		for k := 0; k < 3; k++ {
			vel[i3+k] += (s.rng.Float64() - 0.5) * acc[k]
			pos[i3+k] += vel[i3+k]

			// Reflect only while heading further out so a particle that
			// overshot is not flipped back outward on the next frame.
			lim := s.limits[k]
			if (pos[i3+k] > lim && vel[i3+k] > 0) || (pos[i3+k] < -lim && vel[i3+k] < 0) {
				vel[i3+k] *= rest
			}
		}
	}
}

func (s *Simulator) form(now time.Duration, sh Shimmer) {
	pos, tgt, phase := s.p.Position, s.p.Target, s.p.Phase
	k := s.params.ArriveStrength
	jx, jz := s.params.FormJitter, s.params.FormJitterZ
	n := s.p.Len()

	amp := 0.0
	if sh.Active(now) {
		amp = s.params.ShimmerAmplitude * (1 - sh.Ease(now))
	}
	t := now.Seconds()

	for i := 0; i < n; i++ {
		i3 := i * 3
		pos[i3] += (tgt[i3] - pos[i3]) * k
		pos[i3+1] += (tgt[i3+1] - pos[i3+1]) * k
		pos[i3+2] += (tgt[i3+2] - pos[i3+2]) * k

		if jx != 0 || jz != 0 {
			pos[i3] += (s.rng.Float64() - 0.5) * jx
			pos[i3+1] += (s.rng.Float64() - 0.5) * jx
			pos[i3+2] += (s.rng.Float64() - 0.5) * jz
		}

		if amp > 0 {
			ph := phase[i]
			pos[i3] += math.Sin(t*7.3+ph) * amp
			pos[i3+1] += math.Cos(t*6.1+ph*1.7) * amp
			pos[i3+2] += math.Sin(t*4.7+ph*0.6) * amp * 0.5
		}
	}
}

// Pulse returns point size and opacity multipliers for the shimmer window.
// Both are exactly 1 outside the window.
func (s *Simulator) Pulse(now time.Duration, sh Shimmer) (size, opacity float64) {
	if !sh.Active(now) {
		return 1, 1
	}
	decay := 1 - sh.Ease(now)
	wave := math.Abs(math.Sin(2 * math.Pi * s.params.PulseHz * sh.Elapsed(now)))
	return 1 + s.params.PulseSize*decay*wave, 1 - s.params.PulseFade*decay*wave
}
