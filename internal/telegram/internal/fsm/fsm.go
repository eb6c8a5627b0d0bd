package fsm

import (
	"sync"

	"go.uber.org/atomic"
)

// FSM holds one session per user. Events of a single user are processed one
// at a time; different users never wait on each other.
type FSM struct {
	states map[int64]*userState
	mu     *sync.Mutex
}

type userState struct {
	mu      sync.Mutex
	frozen  *atomic.Bool
	session Session
}

func NewFSM() *FSM {
	return &FSM{
		states: make(map[int64]*userState),
		mu:     &sync.Mutex{},
	}
}

func (f *FSM) getOrCreate(userID int64) *userState {
	f.mu.Lock()
	defer f.mu.Unlock()

	state, ok := f.states[userID]
	if !ok {
		state = &userState{frozen: atomic.NewBool(false)}
		f.states[userID] = state
	}
	return state
}

// Session returns a copy of the user's current session.
func (f *FSM) Session(userID int64) Session {
	state := f.getOrCreate(userID)
	state.mu.Lock()
	defer state.mu.Unlock()
	return state.session
}

func (f *FSM) SetSession(userID int64, session Session) {
	state := f.getOrCreate(userID)
	state.mu.Lock()
	defer state.mu.Unlock()
	state.session = session
}

func (f *FSM) ResetState(userID int64) {
	f.SetSession(userID, Session{})
}

func (f *FSM) Frozen(userID int64) bool {
	return f.getOrCreate(userID).frozen.Load()
}
