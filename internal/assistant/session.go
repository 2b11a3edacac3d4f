package assistant

import "murmur/internal/nlu"

type State int

const (
	Asleep State = iota
	Awake
)

func (s State) String() string {
	if s == Awake {
		return "awake"
	}
	return "asleep"
}

// transitions lists the only state changes; every other intent leaves the
// session where it is. Exit ends the loop instead of transitioning.
var transitions = map[State]map[nlu.Intent]State{
	Asleep: {nlu.Wake: Awake},
	Awake:  {nlu.Sleep: Asleep},
}

// Session is the wake/sleep state machine. It is owned by the dispatch loop.
type Session struct {
	state State
}

func NewSession() *Session {
	return &Session{state: Asleep}
}

func (s *Session) State() State { return s.state }

func (s *Session) Awake() bool { return s.state == Awake }

// Accepts reports whether intent may be dispatched in the current state.
// Asleep sessions only react to Wake; awake ones to everything but Wake.
func (s *Session) Accepts(intent nlu.Intent) bool {
	if s.state == Asleep {
		return intent == nlu.Wake
	}
	return intent != nlu.Wake
}

// Apply moves the session along the transition table and reports whether
// the state changed.
func (s *Session) Apply(intent nlu.Intent) bool {
	next, ok := transitions[s.state][intent]
	if !ok {
		return false
	}
	s.state = next
	return true
}
