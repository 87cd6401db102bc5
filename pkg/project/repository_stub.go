package project

import (
	"context"
	"sync"
)

type RepositoryStub struct {
	mu       sync.RWMutex
	projects map[int]Project
	nextId   int
	err      error
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{projects: make(map[int]Project), nextId: 1}
}

func (r *RepositoryStub) GetProject(ctx context.Context, id int) (Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.err != nil {
		return Project{}, r.err
	}
	p, ok := r.projects[id]
	if !ok {
		return Project{}, ErrProjectNotFound
	}
	return p, nil
}

func (r *RepositoryStub) CreateProject(ctx context.Context, p Project) (Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.Id == 0 {
		p.Id = r.nextId
	}
	if p.Id >= r.nextId {
		r.nextId = p.Id + 1
	}
	r.projects[p.Id] = p
	return p, nil
}

// SetError makes every read fail with err (nil clears it).
func (r *RepositoryStub) SetError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func (r *RepositoryStub) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects = make(map[int]Project)
	r.nextId = 1
	r.err = nil
}
