package recorder

// EventKind identifies a session event.
type EventKind int

const (
	EventStarted EventKind = iota
	EventInterim
	EventFinal
	EventStopped
	EventError
	EventTick
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventInterim:
		return "interim"
	case EventFinal:
		return "final"
	case EventStopped:
		return "stopped"
	case EventError:
		return "error"
	case EventTick:
		return "tick"
	default:
		return "unknown"
	}
}

// Event is emitted to observers in the order state changes happen.
type Event struct {
	Kind    EventKind
	Text    string
	Err     error
	Elapsed int
}

// Observer receives session events.
type Observer interface {
	OnEvent(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) OnEvent(ev Event) { f(ev) }
