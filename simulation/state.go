package simulation

import "github.com/pkg/errors"

// State of the simulation loop
type State int

const (
	// Stopped accepts edits and does not tick
	Stopped State = iota
	// Running ticks on a fixed period and rejects edits
	Running
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	default:
		return "unknown"
	}
}

var (
	// ErrAlreadyRunning is returned by Start when the simulation is ticking
	ErrAlreadyRunning = errors.New("simulation already running")
	// ErrNotRunning is returned by Stop when the simulation is stopped
	ErrNotRunning = errors.New("simulation not running")
	// ErrRunning is returned by edits and Step while the simulation is ticking
	ErrRunning = errors.New("simulation is running")
	// ErrInvalidRate is returned for tick rates that are not a positive finite number
	ErrInvalidRate = errors.New("invalid tick rate")
)
