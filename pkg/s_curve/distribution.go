package s_curve

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/valoriza/valoriza/pkg/schedule"
	"github.com/valoriza/valoriza/pkg/valorization"
)

// Task is a schedule task that can be spread over time: dated and assigned to a resource.
type Task struct {
	StartDate          time.Time
	EndDate            time.Time
	EstimatedHours     decimal.Decimal
	EstimatedHeadcount int
	Resource           schedule.Resource
}

// TaskFrom converts an eligible schedule task; ok is false for tasks missing a date or a resource.
func TaskFrom(t schedule.Task) (task Task, ok bool) {
	if !t.IsEligible() {
		return Task{}, false
	}
	return Task{
		StartDate:          dateOf(*t.StartDate),
		EndDate:            dateOf(*t.EndDate),
		EstimatedHours:     t.EstimatedHours,
		EstimatedHeadcount: t.EstimatedHeadcount,
		Resource:           *t.Resource,
	}, true
}

func (t Task) PlannedCost() decimal.Decimal {
	resource := t.Resource
	return schedule.Task{
		EstimatedHours:     t.EstimatedHours,
		EstimatedHeadcount: t.EstimatedHeadcount,
		Resource:           &resource,
	}.PlannedCost()
}

// Valorization is a recognized billing amount attributed to the week of its period end.
type Valorization struct {
	PeriodEnd time.Time
	Amount    decimal.Decimal
}

// ValorizationFrom converts a valorization; ok is false unless the client has recognized it.
func ValorizationFrom(v valorization.Valorization) (Valorization, bool) {
	if !v.State.IsRecognized() {
		return Valorization{}, false
	}
	return Valorization{PeriodEnd: dateOf(v.PeriodEnd), Amount: v.Amount}, true
}

// DistributeTaskCostByWeek adds to the PV of every bucket overlapping the task the share of its
// planned cost proportional to the overlapping days. It returns the amount actually placed, which is
// less than the planned cost when the task reaches outside the buckets.
func DistributeTaskCostByWeek(task Task, buckets []WeekBucket) decimal.Decimal {
	start, end := dateOf(task.StartDate), dateOf(task.EndDate)
	cost := task.PlannedCost()
	taskDays := decimal.NewFromInt(int64(max(1, inclusiveDays(start, end))))

	distributed := decimal.Zero
	for i := range buckets {
		overlapStart := maxDate(start, buckets[i].WeekStart)
		overlapEnd := minDate(end, buckets[i].WeekEnd)
		overlapDays := inclusiveDays(overlapStart, overlapEnd)
		if overlapDays <= 0 {
			continue
		}
		share := cost.Mul(decimal.NewFromInt(int64(overlapDays))).Div(taskDays)
		buckets[i].PV = buckets[i].PV.Add(share)
		distributed = distributed.Add(share)
	}
	return distributed
}

// PlaceValorizationInWeek adds the amount to the EV of the bucket containing the period end.
// It reports false when no bucket contains it.
func PlaceValorizationInWeek(v Valorization, buckets []WeekBucket) bool {
	for i := range buckets {
		if buckets[i].Contains(v.PeriodEnd) {
			buckets[i].EV = buckets[i].EV.Add(v.Amount)
			return true
		}
	}
	return false
}

// AccumulateBuckets sets the running PV and EV totals. Buckets must be ordered by WeekStart.
func AccumulateBuckets(buckets []WeekBucket) {
	pv, ev := decimal.Zero, decimal.Zero
	for i := range buckets {
		pv = pv.Add(buckets[i].PV)
		ev = ev.Add(buckets[i].EV)
		buckets[i].PVCumulative = pv
		buckets[i].EVCumulative = ev
	}
}
