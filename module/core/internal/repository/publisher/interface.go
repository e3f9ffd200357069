package publisher

import (
	"context"

	"github.com/nandanugg/fieldtime/module/core/domain"
)

type SessionPublisher interface {
	PublishSessionEvent(ctx context.Context, event *domain.SessionEvent) error
}
