package event_bus

const (
	ValorizationChanged     EventType = "valorization.changed"
	ScheduleBaselineChanged EventType = "schedule.baseline.changed"
)

type ValorizationChangedPayload struct {
	ValorizationId int
	ProjectId      int
	State          string
}

type ScheduleBaselineChangedPayload struct {
	ProjectId  int
	ScheduleId int
}
