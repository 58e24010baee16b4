package tasks_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/storefront-api/internal/application/tasks"
)

func TestRunner_FireSobreviveCancelacion(t *testing.T) {
	r := tasks.NewRunner(nil, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran atomic.Bool
	r.Fire(ctx, "test", func(ctx context.Context) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		ran.Store(true)
		return nil
	})
	r.Wait()
	assert.True(t, ran.Load(), "la tarea debe correr aunque el contexto de la petición esté cancelado")
}

func TestRunner_ErroresYPanicNoPropagan(t *testing.T) {
	r := tasks.NewRunner(nil, time.Second)
	r.Fire(context.Background(), "falla", func(context.Context) error { return errors.New("smtp caído") })
	r.Fire(context.Background(), "panic", func(context.Context) error { panic("boom") })
	r.Wait()
}

func TestRunner_Timeout(t *testing.T) {
	r := tasks.NewRunner(nil, 20*time.Millisecond)
	var deadline atomic.Bool
	r.Fire(context.Background(), "lenta", func(ctx context.Context) error {
		<-ctx.Done()
		deadline.Store(errors.Is(ctx.Err(), context.DeadlineExceeded))
		return ctx.Err()
	})
	r.Wait()
	assert.True(t, deadline.Load())
}

func TestRunner_OnFailure(t *testing.T) {
	r := tasks.NewRunner(nil, time.Second)
	var failures atomic.Int32
	r.OnFailure(func(string) { failures.Add(1) })

	r.Fire(context.Background(), "ok", func(context.Context) error { return nil })
	r.Fire(context.Background(), "falla", func(context.Context) error { return errors.New("x") })
	r.Fire(context.Background(), "panic", func(context.Context) error { panic("boom") })
	r.Wait()

	assert.EqualValues(t, 2, failures.Load())
}
