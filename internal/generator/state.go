package generator

// State is the phase of a generation run. A run only moves forward through
// the phases; a failing step moves it to StateFailed.
type State int

const (
	StateInit State = iota
	StateConfigured
	StatePlanning
	StateEnriching
	StateWriting
	StateInstalling
	StateDone
	StateFailed
)

var stateNames = map[State]string{
	StateInit:       "init",
	StateConfigured: "configured",
	StatePlanning:   "planning",
	StateEnriching:  "enriching",
	StateWriting:    "writing",
	StateInstalling: "installing",
	StateDone:       "done",
	StateFailed:     "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}
