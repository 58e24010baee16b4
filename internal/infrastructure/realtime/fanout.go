package realtime

import (
	"context"
	"errors"

	"github.com/jhoicas/storefront-api/internal/application/ports"
)

var _ ports.Notifier = Fanout(nil)

// Fanout reparte cada evento entre varios notifiers (hub WebSocket, NATS).
// Un destino caído no impide entregar a los demás; los errores se unen.
type Fanout []ports.Notifier

func (f Fanout) NotifyUser(ctx context.Context, userID, event string, payload any) error {
	var errs []error
	for _, n := range f {
		if err := n.NotifyUser(ctx, userID, event, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f Fanout) NotifyRole(ctx context.Context, role, event string, payload any) error {
	var errs []error
	for _, n := range f {
		if err := n.NotifyRole(ctx, role, event, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
