// Package swarm holds the particle buffers and the per-frame motion model.
//
// The package provides:
//
//   - [Particles]: flat position/velocity/target buffers plus per-particle phase
//   - [Assign]: maps text sample points onto the fixed-size target buffer
//   - [Simulator]: advances positions under the [Wandering] or [Forming] regime
//   - [Shimmer]: a decaying emphasis window layered on top of forming
//
// # Example
//
//	p := swarm.NewParticles(6000, params, rng)
//	swarm.Assign(p.Target, samples, params.DepthJitter, rng)
//	sim := swarm.NewSimulator(p, params, rng)
//	sim.Step(now, swarm.Forming, shimmer)
//
// # Thread Safety
//
// Particles and Simulator are NOT thread-safe. The frame loop owns the
// buffers exclusively while a step runs.
package swarm
