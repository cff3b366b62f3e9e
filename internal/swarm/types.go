package swarm

import (
	"math"
	"math/rand"

	"github.com/san-kum/glyphswarm/internal/config"
)

type Mode int

const (
	Wandering Mode = iota
	Forming
)

func (m Mode) String() string {
	if m == Forming {
		return "forming"
	}
	return "wandering"
}

// Params are the motion constants read by Simulator and NewParticles.
type Params struct {
	Bounds         float64
	VerticalScale  float64
	Speed          float64
	WanderAccel    float64
	WanderAccelZ   float64
	Restitution    float64
	ArriveStrength float64
	FormJitter     float64
	FormJitterZ    float64
	DepthJitter    float64

	ShimmerAmplitude float64
	PulseHz          float64
	PulseSize        float64
	PulseFade        float64
}

func ParamsFromConfig(cfg *config.Config) Params {
	return Params{
		Bounds:           cfg.Motion.Bounds,
		VerticalScale:    cfg.Motion.VerticalScale,
		Speed:            cfg.Motion.Speed,
		WanderAccel:      cfg.Motion.WanderAccel,
		WanderAccelZ:     cfg.Motion.WanderAccelZ,
		Restitution:      cfg.Motion.Restitution,
		ArriveStrength:   cfg.Motion.ArriveStrength,
		FormJitter:       cfg.Motion.FormJitter,
		FormJitterZ:      cfg.Motion.FormJitterZ,
		DepthJitter:      cfg.Particles.DepthJitter,
		ShimmerAmplitude: cfg.Shimmer.Amplitude,
		PulseHz:          cfg.Shimmer.PulseHz,
		PulseSize:        cfg.Shimmer.PulseSize,
		PulseFade:        cfg.Shimmer.PulseFade,
	}
}

// Limits returns the per-axis wander bounds.
func (p Params) Limits() [3]float64 {
	return [3]float64{p.Bounds, p.Bounds * p.VerticalScale, p.Bounds}
}

// Particles stores N particles as xyz triplets. Buffers are allocated once
// and only overwritten in place.
type Particles struct {
	Position []float64
	Velocity []float64
	Target   []float64
	Phase    []float64
}

// NewParticles scatters n particles uniformly inside the wander bounds with
// random velocities. Each target starts at the particle's own (x, y, 0).
func NewParticles(n int, p Params, rng *rand.Rand) *Particles {
	ps := &Particles{
		Position: make([]float64, n*3),
		Velocity: make([]float64, n*3),
		Target:   make([]float64, n*3),
		Phase:    make([]float64, n),
	}
	lim := p.Limits()
	for i := 0; i < n; i++ {
		i3 := i * 3
		for k := 0; k < 3; k++ {
			ps.Position[i3+k] = (rng.Float64()*2 - 1) * lim[k]
			ps.Velocity[i3+k] = (rng.Float64()*2 - 1) * p.Speed
		}
		ps.Target[i3] = ps.Position[i3]
		ps.Target[i3+1] = ps.Position[i3+1]
		ps.Phase[i] = rng.Float64() * 2 * math.Pi
	}
	return ps
}

func (ps *Particles) Len() int { return len(ps.Phase) }

// Convergence returns the mean distance between particles and their targets.
func (ps *Particles) Convergence() float64 {
	n := ps.Len()
	if n == 0 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		i3 := i * 3
		dx := ps.Target[i3] - ps.Position[i3]
		dy := ps.Target[i3+1] - ps.Position[i3+1]
		dz := ps.Target[i3+2] - ps.Position[i3+2]
		sum += math.Sqrt(dx*dx + dy*dy + dz*dz)
	}
	return sum / float64(n)
}
