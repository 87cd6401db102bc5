package valorization

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrValorizationNotFound = errors.New("valorization not found")
	ErrNegativeAmount       = errors.New("valorization amount must not be negative")
	ErrInvalidTransition    = errors.New("invalid valorization state transition")
	ErrInvalidPeriod        = errors.New("valorization period start is after its end")
)

type ApprovalState string

const (
	StateDraft          ApprovalState = "draft"
	StateSubmitted      ApprovalState = "submitted"
	StateClientApproved ApprovalState = "client_approved"
	StateInvoiced       ApprovalState = "invoiced"
	StatePaid           ApprovalState = "paid"
	StateRejected       ApprovalState = "rejected"
)

// paid and rejected are terminal.
var transitions = map[ApprovalState][]ApprovalState{
	StateDraft:          {StateSubmitted, StateRejected},
	StateSubmitted:      {StateClientApproved, StateRejected},
	StateClientApproved: {StateInvoiced, StateRejected},
	StateInvoiced:       {StatePaid, StateRejected},
}

// IsRecognized reports whether the client has accepted the work, which is when it counts as earned value.
func (s ApprovalState) IsRecognized() bool {
	return s == StateClientApproved || s == StateInvoiced || s == StatePaid
}

func (s ApprovalState) IsValid() bool {
	switch s {
	case StateDraft, StateSubmitted, StateClientApproved, StateInvoiced, StatePaid, StateRejected:
		return true
	}
	return false
}

func (s ApprovalState) CanMoveTo(next ApprovalState) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// RecognizedStates lists the states counted as earned value.
func RecognizedStates() []ApprovalState {
	return []ApprovalState{StateClientApproved, StateInvoiced, StatePaid}
}

type Valorization struct {
	Id          int
	ProjectId   int
	PeriodStart *time.Time
	PeriodEnd   time.Time
	Amount      decimal.Decimal
	State       ApprovalState
	CreatedAt   time.Time
}

func (v Valorization) validate() error {
	if v.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	if v.PeriodStart != nil && v.PeriodStart.After(v.PeriodEnd) {
		return ErrInvalidPeriod
	}
	return nil
}
