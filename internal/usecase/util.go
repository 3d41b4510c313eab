package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/totegamma/textcanon/internal/domain"
)

// referenceError turns a missing reference into a ValidationError on field.
func referenceError(err error, field, resource string, id int64) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ValidationError{Field: field, Message: fmt.Sprintf("%s %d does not exist", resource, id)}
	}
	return err
}

func publish(ctx context.Context, events EventPublisher, logger *slog.Logger, event domain.Event) {
	if events == nil {
		return
	}
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	if err := events.Publish(ctx, event); err != nil {
		logger.WarnContext(ctx, "event publish failed",
			slog.String("type", event.Type),
			slog.Int64("resourceId", event.ResourceID),
			slog.String("error", err.Error()),
		)
	}
}

func recordError(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func orDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
