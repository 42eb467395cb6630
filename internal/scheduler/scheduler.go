package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/freelaav-backend/internal/goroutine"
	"github.com/ignatzorin/freelaav-backend/internal/infrastructure/metrics"
	"github.com/ignatzorin/freelaav-backend/internal/logger"
)

const sweepTimeout = time.Minute

// OverdueSweeper переводит просроченные pending записи в overdue.
type OverdueSweeper interface {
	SweepOverdue(ctx context.Context) (int64, error)
}

// Scheduler запускает фоновые задачи по cron-расписанию.
type Scheduler struct {
	cron    *cron.Cron
	sweeper OverdueSweeper
	log     *logrus.Entry
}

// New регистрирует sweep по spec (стандартный cron или @hourly/@every). Неверный spec: ошибка старта.
func New(spec string, sweeper OverdueSweeper) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		sweeper: sweeper,
		log:     logger.WithComponent("scheduler"),
	}
	if _, err := s.cron.AddFunc(spec, s.runSweep); err != nil {
		return nil, fmt.Errorf("scheduler: некорректное расписание %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.WithField("jobs", len(s.cron.Entries())).Info("планировщик запущен")
}

// Stop ждёт завершения текущих задач не дольше ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn("планировщик остановлен, не дождавшись задач")
	}
}

func (s *Scheduler) runSweep() {
	goroutine.DefaultRecoveryHandler.Run("receivables sweep", func() {
		s.SweepNow(context.Background())
	})
}

// SweepNow выполняет один проход; вызывается по расписанию и из тестов.
func (s *Scheduler) SweepNow(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, sweepTimeout)
	defer cancel()

	start := time.Now()
	n, err := s.sweeper.SweepOverdue(ctx)
	if err != nil {
		s.log.WithError(err).Error("sweep просроченных платежей не удался")
		return 0, err
	}
	metrics.AddOverdue(n)
	s.log.WithFields(logrus.Fields{
		"marked_overdue": n,
		"duration_ms":    time.Since(start).Milliseconds(),
	}).Info("sweep просроченных платежей выполнен")
	return n, nil
}
