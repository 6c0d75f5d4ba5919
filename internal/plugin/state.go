package plugin

// State is the lifecycle state of a plugin.
type State int

// Plugin states.
const (
	// StateUnloaded - discovered, not run yet.
	StateUnloaded State = iota

	// StateLoaded - main file ran and commands are defined.
	StateLoaded

	// StateError - discovery or loading failed.
	StateError
)

func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoaded:
		return "loaded"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}
