package s_curve

import (
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/valoriza/valoriza/pkg/project"
	"github.com/valoriza/valoriza/pkg/schedule"
	"github.com/valoriza/valoriza/pkg/valorization"
)

// Snapshot is everything a curve is computed from. Ineligible tasks and unrecognized valorizations
// are ignored, so callers may pass them unfiltered.
type Snapshot struct {
	Project       project.Project
	BAC           decimal.Decimal
	Schedule      *schedule.Schedule
	Tasks         []schedule.Task
	Valorizations []valorization.Valorization
}

type ProjectRef struct {
	Id   int
	Code string
	Name string
}

type Curve struct {
	Weeks       []WeekBucket
	BAC         decimal.Decimal
	EVM         EVMResult
	HasBaseline bool
	ScheduleId  *int
	Project     ProjectRef
}

// ComputeCurve runs the whole pipeline on a snapshot. It holds no state, so concurrent calls are safe.
func ComputeCurve(s Snapshot) Curve {
	curve := Curve{
		Weeks: make([]WeekBucket, 0),
		BAC:   s.BAC,
		Project: ProjectRef{
			Id:   s.Project.Id,
			Code: s.Project.Code,
			Name: s.Project.Name,
		},
	}
	if s.Schedule != nil {
		scheduleId := s.Schedule.Id
		curve.ScheduleId = &scheduleId
		curve.HasBaseline = s.Schedule.IsBaseline
	}

	var tasks []Task
	if s.Schedule != nil {
		for _, t := range s.Tasks {
			if task, ok := TaskFrom(t); ok {
				tasks = append(tasks, task)
			}
		}
	}
	var valorizations []Valorization
	for _, v := range s.Valorizations {
		if recognized, ok := ValorizationFrom(v); ok {
			valorizations = append(valorizations, recognized)
		}
	}

	if len(tasks) == 0 && len(valorizations) == 0 {
		log.Debugf("project %d has neither tasks nor recognized valorizations, returning an empty curve", s.Project.Id)
		curve.EVM = CalculateEVM(curve.Weeks, s.BAC)
		return curve
	}

	rangeStart, rangeEnd := coveringRange(s, tasks, valorizations)
	if rangeStart.Equal(rangeEnd) {
		rangeEnd = rangeEnd.AddDate(0, 0, daysPerWeek-1)
	}
	buckets := BuildWeekBuckets(rangeStart, rangeEnd)

	for _, task := range tasks {
		cost := task.PlannedCost()
		if distributed := DistributeTaskCostByWeek(task, buckets); distributed.Sub(cost).Abs().GreaterThan(costLossTolerance) {
			log.Tracef("project %d: task %s..%s placed %s of %s", s.Project.Id,
				task.StartDate.Format(time.DateOnly), task.EndDate.Format(time.DateOnly), distributed, cost)
		}
	}
	for _, v := range valorizations {
		if !PlaceValorizationInWeek(v, buckets) {
			log.Warnf("project %d: valorization ending %s fell outside the curve", s.Project.Id, v.PeriodEnd.Format(time.DateOnly))
		}
	}
	AccumulateBuckets(buckets)

	curve.Weeks = buckets
	curve.EVM = CalculateEVM(buckets, s.BAC)
	log.Debugf("project %d: computed %d weeks from %d tasks and %d valorizations",
		s.Project.Id, len(buckets), len(tasks), len(valorizations))
	return curve
}

// costLossTolerance absorbs the rounding of per-day cost shares.
var costLossTolerance = decimal.New(1, -6)

// coveringRange spans every input date so no task or valorization is lost at the edges.
// Without a schedule only valorization dates count.
func coveringRange(s Snapshot, tasks []Task, valorizations []Valorization) (time.Time, time.Time) {
	var dates []time.Time
	if s.Schedule != nil {
		if !s.Project.StartDate.IsZero() {
			dates = append(dates, s.Project.StartDate)
		}
		if s.Project.EndDate != nil {
			dates = append(dates, *s.Project.EndDate)
		}
		for _, t := range tasks {
			dates = append(dates, t.StartDate, t.EndDate)
		}
	}
	for _, v := range valorizations {
		dates = append(dates, v.PeriodEnd)
	}

	start, end := dateOf(dates[0]), dateOf(dates[0])
	for _, d := range dates[1:] {
		start = minDate(start, dateOf(d))
		end = maxDate(end, dateOf(d))
	}
	return start, end
}
