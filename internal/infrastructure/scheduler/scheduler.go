// Package scheduler tareas de mantenimiento periódicas.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/storefront-api/internal/domain/repository"
	"github.com/jhoicas/storefront-api/pkg/logger"
)

const jobTimeout = time.Minute

// JobRecorder recibe el resultado de cada ejecución (métricas).
type JobRecorder interface {
	JobRun(job string, ok bool)
}

// Scheduler envoltorio de cron con las tareas de la API.
type Scheduler struct {
	cron     *cron.Cron
	otps     repository.OTPRepository
	recorder JobRecorder
	log      *logger.Logger
	now      func() time.Time
}

// New construye el scheduler. recorder puede ser nil.
func New(otps repository.OTPRepository, recorder JobRecorder, log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		otps:     otps,
		recorder: recorder,
		log:      log.Named("scheduler"),
		now:      time.Now,
	}
}

// Start registra las tareas y arranca cron. La expresión usa la sintaxis de robfig/cron ("@every 15m").
func (s *Scheduler) Start(otpPurgeSpec string) error {
	if _, err := s.cron.AddFunc(otpPurgeSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		_, _ = s.PurgeExpiredOTPs(ctx)
	}); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info().Str("otp_purge", otpPurgeSpec).Msg("scheduler iniciado")
	return nil
}

// Stop detiene cron y espera a que termine la ejecución en curso.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// PurgeExpiredOTPs borra los códigos vencidos.
func (s *Scheduler) PurgeExpiredOTPs(ctx context.Context) (int64, error) {
	n, err := s.otps.DeleteExpired(ctx, s.now())
	if s.recorder != nil {
		s.recorder.JobRun("otp-purge", err == nil)
	}
	if err != nil {
		s.log.Error().Err(err).Msg("purga de OTP falló")
		return 0, err
	}
	if n > 0 {
		s.log.Info().Int64("deleted", n).Msg("OTP vencidos purgados")
	}
	return n, nil
}
