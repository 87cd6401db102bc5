package schedule

import (
	"context"
	"sort"
	"sync"
	"time"
)

type RepositoryStub struct {
	mu        sync.RWMutex
	schedules map[int]Schedule
	tasks     map[int][]Task
	nextId    int
	err       error
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{
		schedules: make(map[int]Schedule),
		tasks:     make(map[int][]Task),
		nextId:    1,
	}
}

func (s *RepositoryStub) WithTransaction(ctx context.Context, fn func(repo Repository) error) error {
	return fn(s)
}

func (s *RepositoryStub) GetSchedule(ctx context.Context, projectId int, id int) (Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return Schedule{}, s.err
	}
	sched, ok := s.schedules[id]
	if !ok || sched.ProjectId != projectId {
		return Schedule{}, ErrScheduleNotFound
	}
	return sched, nil
}

func (s *RepositoryStub) GetBaseline(ctx context.Context, projectId int) (Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return Schedule{}, s.err
	}
	for _, sched := range s.schedules {
		if sched.ProjectId == projectId && sched.IsBaseline {
			return sched, nil
		}
	}
	return Schedule{}, ErrScheduleNotFound
}

func (s *RepositoryStub) GetLatest(ctx context.Context, projectId int) (Schedule, error) {
	schedules, err := s.ListSchedules(ctx, projectId)
	if err != nil {
		return Schedule{}, err
	}
	if len(schedules) == 0 {
		return Schedule{}, ErrScheduleNotFound
	}
	return schedules[len(schedules)-1], nil
}

func (s *RepositoryStub) ListSchedules(ctx context.Context, projectId int) ([]Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	var result []Schedule
	for _, sched := range s.schedules {
		if sched.ProjectId == projectId {
			result = append(result, sched)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].Id < result[j].Id
	})
	return result, nil
}

func (s *RepositoryStub) ListEligibleTasks(ctx context.Context, scheduleId int) ([]Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	var result []Task
	for _, task := range s.tasks[scheduleId] {
		if task.IsEligible() {
			result = append(result, task)
		}
	}
	return result, nil
}

func (s *RepositoryStub) CreateSchedule(ctx context.Context, sched Schedule) (Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return Schedule{}, s.err
	}
	sched.Id = s.nextId
	s.nextId++
	if sched.CreatedAt.IsZero() {
		sched.CreatedAt = time.Now()
	}
	s.schedules[sched.Id] = sched
	return sched, nil
}

func (s *RepositoryStub) CreateResource(ctx context.Context, r Resource) (Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return Resource{}, s.err
	}
	r.Id = s.nextId
	s.nextId++
	return r, nil
}

func (s *RepositoryStub) CreateTask(ctx context.Context, t Task) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return Task{}, s.err
	}
	t.Id = s.nextId
	s.nextId++
	s.tasks[t.ScheduleId] = append(s.tasks[t.ScheduleId], t)
	return t, nil
}

func (s *RepositoryStub) clearBaseline(ctx context.Context, projectId int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	for id, sched := range s.schedules {
		if sched.ProjectId == projectId && sched.IsBaseline {
			sched.IsBaseline = false
			s.schedules[id] = sched
		}
	}
	return nil
}

func (s *RepositoryStub) markBaseline(ctx context.Context, projectId int, scheduleId int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	sched, ok := s.schedules[scheduleId]
	if !ok || sched.ProjectId != projectId {
		return ErrScheduleNotFound
	}
	sched.IsBaseline = true
	s.schedules[scheduleId] = sched
	return nil
}

// SetError makes every subsequent call fail with err.
func (s *RepositoryStub) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *RepositoryStub) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedules = make(map[int]Schedule)
	s.tasks = make(map[int][]Task)
	s.nextId = 1
	s.err = nil
}
