package database

import (
	"context"

	"github.com/nandanugg/fieldtime/module/core/domain"
)

type WorkLogRepository interface {
	Insert(ctx context.Context, entry *domain.WorkLogEntry) error
}
