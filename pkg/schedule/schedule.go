package schedule

import (
	"time"

	"github.com/shopspring/decimal"
)

type Schedule struct {
	Id         int
	ProjectId  int
	Name       string
	IsBaseline bool
	CreatedAt  time.Time
}

type ResourceType string

// CrewResource is a resource whose hourly cost already covers the whole crew,
// so the task headcount does not multiply it.
const CrewResource ResourceType = "crew"

type Resource struct {
	Id         int
	Name       string
	Type       ResourceType
	HourlyCost decimal.Decimal
}

type Task struct {
	Id                 int
	ScheduleId         int
	Name               string
	StartDate          *time.Time
	EndDate            *time.Time
	EstimatedHours     decimal.Decimal
	EstimatedHeadcount int
	Resource           *Resource
}

// IsEligible reports whether the task can be costed over time: both dates and a resource are set.
func (t Task) IsEligible() bool {
	return t.StartDate != nil && t.EndDate != nil && t.Resource != nil
}

// PlannedCost is hours × headcount × hourly cost; crew resources ignore the headcount.
func (t Task) PlannedCost() decimal.Decimal {
	if t.Resource == nil {
		return decimal.Zero
	}
	multiplier := decimal.NewFromInt(int64(t.EstimatedHeadcount))
	if t.Resource.Type == CrewResource {
		multiplier = decimal.NewFromInt(1)
	}
	return t.EstimatedHours.Mul(multiplier).Mul(t.Resource.HourlyCost)
}
