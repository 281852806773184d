package notifier

import (
	"context"
	"downalert/internal/model"
)

// Notifier delivers a down alert to the owner of the site.
type Notifier interface {
	Notify(ctx context.Context, alert model.Alert) error
}

type Func func(ctx context.Context, alert model.Alert) error

func (f Func) Notify(ctx context.Context, alert model.Alert) error {
	return f(ctx, alert)
}
