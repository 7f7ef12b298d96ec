package login

import "ocl/internal/domain"

// State is a step of a login attempt.
type State int

// States in the order a fresh login passes through them.
const (
	Idle State = iota
	AcquiringLock
	CheckingExistingSession
	SessionValid
	SelectingIdp
	AcquiringToken
	LoggingIn
	ReleasingLock
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AcquiringLock:
		return "acquiring-lock"
	case CheckingExistingSession:
		return "checking-existing-session"
	case SessionValid:
		return "session-valid"
	case SelectingIdp:
		return "selecting-idp"
	case AcquiringToken:
		return "acquiring-token"
	case LoggingIn:
		return "logging-in"
	case ReleasingLock:
		return "releasing-lock"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Observer is notified of every state a login enters.
type Observer interface {
	StateChanged(cluster domain.Cluster, state State)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(cluster domain.Cluster, state State)

// StateChanged calls f.
func (f ObserverFunc) StateChanged(cluster domain.Cluster, state State) {
	f(cluster, state)
}

type noopObserver struct{}

func (noopObserver) StateChanged(domain.Cluster, State) {}
