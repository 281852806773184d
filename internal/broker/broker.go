package broker

import (
	"context"
	"downalert/internal/model"
)

type MessageBroker interface {
	ConsumeAlerts(ctx context.Context) (<-chan model.Alert, error)
	PublishAlert(ctx context.Context, alert model.Alert) error

	Close()
}
