package timeseries

import (
	"context"

	"github.com/nandanugg/fieldtime/module/core/domain"
)

type WorkSessionWriter interface {
	WriteEntry(ctx context.Context, entry *domain.WorkLogEntry) error
}
