// Package tasks ejecuta efectos secundarios best-effort (email, eventos en vivo,
// notificaciones) desacoplados de la petición que los origina.
package tasks

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/storefront-api/pkg/logger"
)

// DefaultTimeout tiempo máximo de cada tarea.
const DefaultTimeout = 10 * time.Second

// Runner lanza tareas fire-and-forget. Los errores se registran y nunca llegan al llamador.
type Runner struct {
	log     *logger.Logger
	timeout time.Duration
	wg      sync.WaitGroup

	onFailure func(name string)
}

// NewRunner construye el runner. timeout <= 0 usa DefaultTimeout.
func NewRunner(log *logger.Logger, timeout time.Duration) *Runner {
	if log == nil {
		log = logger.Nop()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Runner{log: log.Named("tasks"), timeout: timeout}
}

// OnFailure registra un hook invocado en cada fallo o pánico (métricas). Llamar antes de usar el runner.
func (r *Runner) OnFailure(fn func(name string)) {
	r.onFailure = fn
}

// Fire ejecuta fn en una goroutine con un contexto que sobrevive a la cancelación de ctx
// (la respuesta HTTP ya puede haberse enviado) pero con su propio timeout.
func (r *Runner) Fire(ctx context.Context, name string, fn func(ctx context.Context) error) {
	detached := context.WithoutCancel(ctx)
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				r.log.Error().Str("task", name).Interface("panic", rec).Msg("tarea best-effort en pánico")
				r.failed(name)
			}
		}()
		tctx, cancel := context.WithTimeout(detached, r.timeout)
		defer cancel()
		if err := fn(tctx); err != nil {
			r.log.Warn().Err(err).Str("task", name).Msg("tarea best-effort falló")
			r.failed(name)
		}
	}()
}

func (r *Runner) failed(name string) {
	if r.onFailure != nil {
		r.onFailure(name)
	}
}

// Wait bloquea hasta que terminen las tareas en curso (apagado ordenado y tests).
func (r *Runner) Wait() {
	r.wg.Wait()
}
