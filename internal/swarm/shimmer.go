package swarm

import "time"

// Shimmer is an emphasis window ending at End. The zero value is inactive.
type Shimmer struct {
	End      time.Duration
	Duration time.Duration
}

func OpenShimmer(now, d time.Duration) Shimmer {
	return Shimmer{End: now + d, Duration: d}
}

func (s Shimmer) Active(now time.Duration) bool {
	return s.Duration > 0 && now < s.End
}

// Progress is the elapsed fraction of the window, clamped to [0,1].
func (s Shimmer) Progress(now time.Duration) float64 {
	if s.Duration <= 0 {
		return 1
	}
	f := float64(now-(s.End-s.Duration)) / float64(s.Duration)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// Ease applies a cubic ease-out to Progress: 0 at open, 1 at expiry.
func (s Shimmer) Ease(now time.Duration) float64 {
	inv := 1 - s.Progress(now)
	return 1 - inv*inv*inv
}

// Elapsed is the time since the window opened, in seconds.
func (s Shimmer) Elapsed(now time.Duration) float64 {
	return (now - (s.End - s.Duration)).Seconds()
}
