package curve_cache

import (
	"context"
	"slices"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/valoriza/valoriza/internal/event_bus"
	"github.com/valoriza/valoriza/internal/utils"
	"github.com/valoriza/valoriza/pkg/s_curve"
)

type key struct {
	projectId  int
	scheduleId int
	asOf       time.Time
}

type entry struct {
	curve     s_curve.Curve
	expiresAt time.Time
}

// Cache memoizes curves per project, selected schedule and day. It sits in front of the curve
// service; the engine itself stays stateless.
type Cache struct {
	next      s_curve.Service
	schedules s_curve.ScheduleReader
	clock     utils.Clock
	ttl       time.Duration

	mu      sync.Mutex
	entries map[key]entry

	// generations counts invalidations per project; a result computed across one is not stored.
	generations map[int]uint64
}

func NewCache(next s_curve.Service, schedules s_curve.ScheduleReader, clock utils.Clock, ttl time.Duration) *Cache {
	return &Cache{
		next:        next,
		schedules:   schedules,
		clock:       clock,
		ttl:         ttl,
		entries:     make(map[key]entry),
		generations: make(map[int]uint64),
	}
}

// SubscribeTo drops a project's curves whenever one of its valorizations or its baseline changes.
func (c *Cache) SubscribeTo(bus *event_bus.EventBus) {
	event_bus.SubscribeTyped(bus, event_bus.ValorizationChanged, func(e event_bus.EventT[event_bus.ValorizationChangedPayload]) error {
		c.Invalidate(e.Data.ProjectId)
		return nil
	})
	event_bus.SubscribeTyped(bus, event_bus.ScheduleBaselineChanged, func(e event_bus.EventT[event_bus.ScheduleBaselineChangedPayload]) error {
		c.Invalidate(e.Data.ProjectId)
		return nil
	})
}

func (c *Cache) GetCurve(ctx context.Context, projectId int) (s_curve.Curve, error) {
	selected, err := s_curve.SelectSchedule(ctx, c.schedules, projectId)
	if err != nil {
		return s_curve.Curve{}, err
	}
	k := key{projectId: projectId, asOf: utils.Today(c.clock)}
	if selected != nil {
		k.scheduleId = selected.Id
	}

	now := c.clock.Now()
	c.mu.Lock()
	cached, ok := c.entries[k]
	if ok && !now.Before(cached.expiresAt) {
		delete(c.entries, k)
		ok = false
	}
	generation := c.generations[projectId]
	c.mu.Unlock()
	if ok {
		log.Tracef("curve cache hit for project %d", projectId)
		return clone(cached.curve), nil
	}

	curve, err := c.next.GetCurve(ctx, projectId)
	if err != nil {
		return s_curve.Curve{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.prune(now, k.asOf)
	if c.generations[projectId] != generation {
		log.Debugf("curve cache: project %d changed while computing, not storing", projectId)
		return curve, nil
	}
	c.entries[k] = entry{curve: clone(curve), expiresAt: now.Add(c.ttl)}
	return curve, nil
}

func (c *Cache) Invalidate(projectId int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[projectId]++
	removed := 0
	for k := range c.entries {
		if k.projectId == projectId {
			delete(c.entries, k)
			removed++
		}
	}
	log.Debugf("curve cache: dropped %d entries of project %d", removed, projectId)
}

// prune drops expired entries and those of past days, which no request can hit again.
// Callers hold c.mu.
func (c *Cache) prune(now time.Time, today time.Time) {
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) || k.asOf.Before(today) {
			delete(c.entries, k)
		}
	}
}

// Len returns the number of cached curves.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// clone copies the week slice so callers cannot alter a cached curve.
func clone(curve s_curve.Curve) s_curve.Curve {
	curve.Weeks = slices.Clone(curve.Weeks)
	if curve.ScheduleId != nil {
		id := *curve.ScheduleId
		curve.ScheduleId = &id
	}
	return curve
}
