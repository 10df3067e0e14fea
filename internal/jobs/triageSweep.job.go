package jobs

import (
	"context"
	"time"

	"staykeeper/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

// TriageSweepJob re-scores every unresolved chat session on a schedule so
// heat decay and escalation keep moving even when no operator has the
// dashboard open.
type TriageSweepJob struct {
	triage   *services.TriageService
	log      logger.Logger
	schedule services.Schedule
}

func NewTriageSweepJob(
	triage *services.TriageService,
	schedule services.Schedule,
) *TriageSweepJob {
	log := logger.New("triageSweepJob")
	log.Info("Creating new triage sweep job", "schedule", schedule)

	return &TriageSweepJob{
		triage:   triage,
		log:      log,
		schedule: schedule,
	}
}

func (j *TriageSweepJob) Name() string {
	return "TriageSweep"
}

func (j *TriageSweepJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	scored, err := j.triage.SweepUnresolved(ctx, time.Now())
	if err != nil {
		return log.Err("triage sweep failed", err)
	}

	log.Info("Triage sweep completed", "sessionsScored", scored)
	return nil
}

func (j *TriageSweepJob) Schedule() services.Schedule {
	return j.schedule
}
