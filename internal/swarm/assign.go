package swarm

import (
	"math/rand"

	"github.com/san-kum/glyphswarm/internal/glyph"
)

// Assign fills the flat target buffer from samples. With fewer samples than
// particles the samples repeat cyclically; with more, only the first
// len(targets)/3 are used. Every z gets independent jitter in
// [-depthJitter, depthJitter].
func Assign(targets []float64, samples []glyph.Point, depthJitter float64, rng *rand.Rand) {
	if len(samples) == 0 {
		samples = []glyph.Point{{}}
	}
	n := len(targets) / 3
	m := len(samples)
	for i := 0; i < n; i++ {
		src := samples[i%m]
		i3 := i * 3
		targets[i3] = src.X
		targets[i3+1] = src.Y
		targets[i3+2] = (rng.Float64()*2 - 1) * depthJitter
	}
}
