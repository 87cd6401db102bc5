package valorization

import (
	"context"
	"sort"
	"sync"
	"time"
)

type RepositoryStub struct {
	mu            sync.RWMutex
	valorizations map[int]Valorization
	nextId        int
	err           error
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{valorizations: make(map[int]Valorization), nextId: 1}
}

func (s *RepositoryStub) ListByProject(ctx context.Context, projectId int) ([]Valorization, error) {
	return s.list(projectId, func(v Valorization) bool { return true })
}

func (s *RepositoryStub) ListRecognized(ctx context.Context, projectId int) ([]Valorization, error) {
	return s.list(projectId, func(v Valorization) bool { return v.State.IsRecognized() })
}

func (s *RepositoryStub) list(projectId int, keep func(Valorization) bool) ([]Valorization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	var result []Valorization
	for _, v := range s.valorizations {
		if v.ProjectId == projectId && keep(v) {
			result = append(result, v)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].PeriodEnd.Equal(result[j].PeriodEnd) {
			return result[i].PeriodEnd.Before(result[j].PeriodEnd)
		}
		return result[i].Id < result[j].Id
	})
	return result, nil
}

func (s *RepositoryStub) GetValorization(ctx context.Context, id int) (Valorization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return Valorization{}, s.err
	}
	v, ok := s.valorizations[id]
	if !ok {
		return Valorization{}, ErrValorizationNotFound
	}
	return v, nil
}

func (s *RepositoryStub) CreateValorization(ctx context.Context, v Valorization) (Valorization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return Valorization{}, s.err
	}
	v.Id = s.nextId
	s.nextId++
	if v.State == "" {
		v.State = StateDraft
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}
	s.valorizations[v.Id] = v
	return v, nil
}

func (s *RepositoryStub) UpdateState(ctx context.Context, id int, current ApprovalState, next ApprovalState) (Valorization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return Valorization{}, s.err
	}
	v, ok := s.valorizations[id]
	if !ok || v.State != current {
		return Valorization{}, ErrValorizationNotFound
	}
	v.State = next
	s.valorizations[id] = v
	return v, nil
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
	s.valorizations = make(map[int]Valorization)
	s.nextId = 1
	s.err = nil
}
