package workflow

import "github.com/quanghuydn8/app-theu/internal/order/entity"

// Effect describes what a status change means for revenue and review.
// Any status may be set to any other; Effect only reports consequences.
type Effect struct {
	From, To entity.Status

	EnteredDone     bool
	LeftDone        bool
	EnteredCanceled bool
	LeftCanceled    bool
	// Reverse is a move back in the flow, FromTerminal a move out of
	// Completed or Canceled. Both are allowed and flagged for review.
	Reverse      bool
	FromTerminal bool
}

func (e Effect) Changed() bool { return e.From != e.To }

// NeedsReview reports a change an owner should look at.
func (e Effect) NeedsReview() bool { return e.Reverse || e.FromTerminal }

// Transition computes the effect of moving from one status to another.
func Transition(from, to entity.Status) Effect {
	e := Effect{From: from, To: to}
	if from == to {
		return e
	}
	e.EnteredDone = to.IsDone() && !from.IsDone()
	e.LeftDone = from.IsDone() && !to.IsDone()
	e.EnteredCanceled = to.IsCanceled() && !from.IsCanceled()
	e.LeftCanceled = from.IsCanceled() && !to.IsCanceled()
	e.FromTerminal = from.IsTerminal()
	e.Reverse = !sideState(from) && !sideState(to) && from.Rank() > to.Rank() && to.Rank() >= 0
	return e
}

// side states sit outside the forward flow
func sideState(s entity.Status) bool {
	return s == entity.StatusExchanged || s == entity.StatusCanceled
}
