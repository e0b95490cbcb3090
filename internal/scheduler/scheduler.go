package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/MirosMazurenko/Banking-solution/internal/service"
)

// Auditor checks stored balances against recorded transaction history.
type Auditor interface {
	AuditBalances(ctx context.Context) ([]service.Discrepancy, error)
}

// AlertSender delivers audit findings to an operator.
type AlertSender interface {
	SendAuditAlert(discrepancies []service.Discrepancy) error
}

// Scheduler runs the periodic balance-consistency audit.
type Scheduler struct {
	cron    *cron.Cron
	auditor Auditor
	alerts  AlertSender
	log     *logrus.Logger
}

// New creates a scheduler. alerts may be nil when no alert address is
// configured; findings are then only logged.
func New(auditor Auditor, alerts AlertSender, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		auditor: auditor,
		alerts:  alerts,
		log:     log,
	}
}

// Start registers the audit job with the given cron spec and starts the
// scheduler.
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.RunAudit); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Infof("Balance audit scheduled: %s", spec)
	return nil
}

// Stop stops the scheduler and waits for a running audit to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// RunAudit performs one audit pass.
func (s *Scheduler) RunAudit() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	discrepancies, err := s.auditor.AuditBalances(ctx)
	if err != nil {
		s.log.Errorf("Balance audit failed: %v", err)
		return
	}
	if len(discrepancies) == 0 {
		s.log.Debug("Balance audit found no discrepancies")
		return
	}

	for _, d := range discrepancies {
		s.log.Errorf("Balance drift on account %d: balance %s, history total %s, drift %s",
			d.AccountID, d.Balance.StringFixed(2), d.HistoryTotal.StringFixed(2), d.Drift.StringFixed(2))
	}
	if s.alerts != nil {
		if err := s.alerts.SendAuditAlert(discrepancies); err != nil {
			s.log.Errorf("Failed to deliver audit alert: %v", err)
		}
	}
}
