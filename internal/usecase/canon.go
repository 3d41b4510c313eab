package usecase

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/totegamma/textcanon/internal/domain"
)

type CanonUsecase struct {
	contents TextContentRepository
	canons   CanonRepository
	events   EventPublisher
	logger   *slog.Logger
}

func NewCanonUsecase(contents TextContentRepository, canons CanonRepository, events EventPublisher, logger *slog.Logger) *CanonUsecase {
	return &CanonUsecase{contents: contents, canons: canons, events: events, logger: orDefault(logger)}
}

// SetCanons replaces the membership set of a text content. Duplicate ids
// collapse and an empty list clears every membership.
func (uc *CanonUsecase) SetCanons(ctx context.Context, textContentID int64, canonIDs []int64) ([]domain.CanonRef, error) {
	ctx, span := tracer.Start(ctx, "Canon.Usecase.SetCanons")
	defer span.End()
	span.SetAttributes(attribute.Int64("TextContentID", textContentID))

	if canonIDs == nil {
		canonIDs = []int64{}
	}
	if err := uc.canons.SetCanons(ctx, textContentID, canonIDs); err != nil {
		return nil, recordError(span, err)
	}

	refs, err := uc.canons.ListCanonsFor(ctx, textContentID)
	if err != nil {
		return nil, recordError(span, err)
	}

	uc.logger.InfoContext(ctx, "canons replaced",
		slog.Int64("textContentId", textContentID),
		slog.Int("count", len(refs)),
	)
	publish(ctx, uc.events, uc.logger, domain.Event{Type: domain.EventCanonsReplaced, ResourceID: textContentID})
	return refs, nil
}

// ListCanonsFor returns the canons of a text content by display order.
func (uc *CanonUsecase) ListCanonsFor(ctx context.Context, textContentID int64) ([]domain.CanonRef, error) {
	ctx, span := tracer.Start(ctx, "Canon.Usecase.ListCanonsFor")
	defer span.End()

	if _, err := uc.contents.Get(ctx, textContentID); err != nil {
		return nil, recordError(span, err)
	}
	refs, err := uc.canons.ListCanonsFor(ctx, textContentID)
	return refs, recordError(span, err)
}

func (uc *CanonUsecase) ListCanonNamesFor(ctx context.Context, textContentID int64) ([]string, error) {
	refs, err := uc.ListCanonsFor(ctx, textContentID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		names = append(names, ref.Name)
	}
	return names, nil
}

// FindByCanon lists the member text contents of a canon ordered by book,
// unit group and unit.
func (uc *CanonUsecase) FindByCanon(ctx context.Context, canonID int64) ([]domain.TextContent, error) {
	ctx, span := tracer.Start(ctx, "Canon.Usecase.FindByCanon")
	defer span.End()
	span.SetAttributes(attribute.Int64("CanonID", canonID))

	contents, err := uc.canons.FindByCanon(ctx, canonID)
	return contents, recordError(span, err)
}
