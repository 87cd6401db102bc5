package app

import (
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"github.com/valoriza/valoriza/internal/config"
	"github.com/valoriza/valoriza/internal/event_bus"
	"github.com/valoriza/valoriza/internal/utils"
	"github.com/valoriza/valoriza/pkg/curve_cache"
	"github.com/valoriza/valoriza/pkg/project"
	"github.com/valoriza/valoriza/pkg/s_curve"
	"github.com/valoriza/valoriza/pkg/schedule"
	"github.com/valoriza/valoriza/pkg/user"
	"github.com/valoriza/valoriza/pkg/valorization"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	EventBus *event_bus.EventBus
	Clock    utils.Clock

	UserRepo    user.Repo
	UserHandler *user.Handler

	ProjectRepo project.Repository

	ScheduleRepo    schedule.Repository
	ScheduleService schedule.Service
	ScheduleHandler *schedule.Handler

	ValorizationRepo    valorization.Repository
	ValorizationService valorization.Service
	ValorizationHandler *valorization.Handler

	CurveService     s_curve.Service
	CurveCache       *curve_cache.Cache
	CsvCurveRenderer *s_curve.CsvCurveRendererImpl
	CurveHandler     *s_curve.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *pgxpool.Pool, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.EventBus = event_bus.NewEventBus()
	deps.Clock = &utils.SystemClock{}

	deps.UserRepo = user.NewUserRepo(db)
	deps.UserHandler = user.NewHandler()

	deps.ProjectRepo = project.NewRepository(db)

	deps.ScheduleRepo = schedule.NewRepo(db)
	deps.ScheduleService = schedule.NewService(deps.ScheduleRepo, deps.ProjectRepo, deps.EventBus)
	deps.ScheduleHandler = schedule.NewHandler(deps.ScheduleService)

	deps.ValorizationRepo = valorization.NewRepo(db)
	deps.ValorizationService = valorization.NewService(deps.ValorizationRepo, deps.ProjectRepo, deps.EventBus)
	deps.ValorizationHandler = valorization.NewHandler(deps.ValorizationService)

	deps.CurveService = s_curve.NewService(deps.ProjectRepo, deps.ScheduleRepo, deps.ValorizationRepo)
	if cfg.Curve.CacheEnabled {
		deps.CurveCache = curve_cache.NewCache(deps.CurveService, deps.ScheduleRepo, deps.Clock, cfg.Curve.CacheTtl)
		deps.CurveCache.SubscribeTo(deps.EventBus)
		deps.CurveService = deps.CurveCache
		log.Infof("Curve cache enabled with a ttl of %s", cfg.Curve.CacheTtl)
	}
	deps.CsvCurveRenderer = s_curve.NewCsvCurveRenderer()
	deps.CurveHandler = s_curve.NewHandler(deps.CurveService, user.RolesOf(cfg.Auth.CurveRoles), deps.CsvCurveRenderer)

	return deps
}
