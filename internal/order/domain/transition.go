package domain

// TransitionPolicy decides whether an order may move between two statuses.
type TransitionPolicy interface {
	Allow(from, to Status) bool
}

// Unconstrained accepts any move between valid statuses.
type Unconstrained struct{}

func (Unconstrained) Allow(_, to Status) bool { return to.Valid() }

// Strict walks orders forward one step at a time through
// pending, confirmed, preparing, ready and completed. Any non-terminal order
// may be cancelled. Keeping the current status is always allowed.
type Strict struct{}

var forward = map[Status]Status{
	StatusPending:   StatusConfirmed,
	StatusConfirmed: StatusPreparing,
	StatusPreparing: StatusReady,
	StatusReady:     StatusCompleted,
}

func (Strict) Allow(from, to Status) bool {
	if !to.Valid() {
		return false
	}
	if from == to {
		return true
	}
	if to == StatusCancelled {
		return !from.Terminal()
	}
	return forward[from] == to
}

func PolicyFor(strict bool) TransitionPolicy {
	if strict {
		return Strict{}
	}
	return Unconstrained{}
}
