package gesture

import (
	"fmt"
	"time"

	"github.com/san-kum/glyphswarm/internal/swarm"
)

type PointerKind int

const (
	Mouse PointerKind = iota
	Touch
	Pen
)

func (k PointerKind) String() string {
	switch k {
	case Touch:
		return "touch"
	case Pen:
		return "pen"
	default:
		return "mouse"
	}
}

type EventType int

const (
	PointerEnter EventType = iota
	PointerLeave
	PointerDown
	PointerMove
	PointerUp
	PointerCancel
	Click
)

var eventNames = [...]string{"enter", "leave", "down", "move", "up", "cancel", "click"}

func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return fmt.Sprintf("event(%d)", int(t))
}

// Event is one pointer input sample. At is the host's monotonic timestamp.
type Event struct {
	Type EventType
	Kind PointerKind
	X, Y float64
	At   time.Duration
}

type TimerKind int

const (
	LongPressTimer TimerKind = iota
	ReleaseTimer
	numTimers
)

func (k TimerKind) String() string {
	if k == ReleaseTimer {
		return "release"
	}
	return "long-press"
}

type EffectType int

const (
	EffectSetMode EffectType = iota
	EffectPromote
	EffectShimmer
	EffectArmTimer
	EffectCancelTimer
	EffectSuppressClick
)

// Effect is a side effect requested by the controller. Mode is set for
// EffectSetMode; Timer and Gen for timer effects; At is the deadline of an
// armed timer or the time the effect was produced.
type Effect struct {
	Type  EffectType
	Mode  swarm.Mode
	Timer TimerKind
	Gen   uint64
	At    time.Duration
}

type Phase int

const (
	Idle Phase = iota
	Pressed
	LongPress
	Tap
	Cancelled
)

var phaseNames = [...]string{"idle", "pressed", "long-press", "tap", "cancelled"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("phase(%d)", int(p))
}
