package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"

	"github.com/totegamma/textcanon/internal/domain"
)

type UnitUsecase struct {
	units      UnitRepository
	refs       ReferenceRepository
	normalizer Normalizer
	logger     *slog.Logger
}

func NewUnitUsecase(units UnitRepository, refs ReferenceRepository, normalizer Normalizer, logger *slog.Logger) *UnitUsecase {
	return &UnitUsecase{units: units, refs: refs, normalizer: normalizer, logger: orDefault(logger)}
}

func (uc *UnitUsecase) RegisterUnit(ctx context.Context, unit domain.TextUnit) (domain.TextUnit, error) {
	ctx, span := tracer.Start(ctx, "Unit.Usecase.RegisterUnit")
	defer span.End()

	unit.UnitID = strings.TrimSpace(unit.UnitID)
	unit.Tradition = strings.TrimSpace(unit.Tradition)
	unit.DivisionCode = strings.TrimSpace(unit.DivisionCode)
	unit.Subref = strings.TrimSpace(unit.Subref)

	switch {
	case unit.UnitID == "":
		return domain.TextUnit{}, recordError(span, domain.ValidationError{Field: "unitId", Message: "is required"})
	case unit.Tradition == "":
		return domain.TextUnit{}, recordError(span, domain.ValidationError{Field: "tradition", Message: "is required"})
	case unit.DivisionCode == "":
		return domain.TextUnit{}, recordError(span, domain.ValidationError{Field: "divisionCode", Message: "is required"})
	case unit.Chapter < 1:
		return domain.TextUnit{}, recordError(span, domain.ValidationError{Field: "chapter", Message: "must be at least 1"})
	case unit.Verse < 0:
		return domain.TextUnit{}, recordError(span, domain.ValidationError{Field: "verse", Message: "must not be negative"})
	}
	span.SetAttributes(attribute.String("UnitID", unit.UnitID))

	saved, err := uc.units.CreateUnit(ctx, unit)
	if err != nil {
		return domain.TextUnit{}, recordError(span, err)
	}
	uc.logger.InfoContext(ctx, "text unit registered", slog.String("unitId", saved.UnitID))
	return saved, nil
}

// GetUnit returns a unit with every payload stored for it.
func (uc *UnitUsecase) GetUnit(ctx context.Context, unitID string) (domain.UnitDetail, error) {
	ctx, span := tracer.Start(ctx, "Unit.Usecase.GetUnit")
	defer span.End()

	unit, err := uc.units.GetUnit(ctx, unitID)
	if err != nil {
		return domain.UnitDetail{}, recordError(span, err)
	}
	payloads, err := uc.units.ListPayloads(ctx, unitID)
	if err != nil {
		return domain.UnitDetail{}, recordError(span, err)
	}
	return domain.UnitDetail{Unit: unit, Payloads: payloads}, nil
}

func (uc *UnitUsecase) MapToCanon(ctx context.Context, canonID int64, unitID string, sequence int) (domain.CanonMap, error) {
	ctx, span := tracer.Start(ctx, "Unit.Usecase.MapToCanon")
	defer span.End()

	if sequence < 0 {
		return domain.CanonMap{}, recordError(span, domain.ValidationError{Field: "sequence", Message: "must not be negative"})
	}
	if _, err := uc.units.GetUnit(ctx, unitID); err != nil {
		return domain.CanonMap{}, recordError(span, referenceUnitError(err, unitID))
	}

	mapped, err := uc.units.MapToCanon(ctx, canonID, unitID, sequence)
	return mapped, recordError(span, err)
}

// ListCanonUnits returns the units of a canon in sequence order.
func (uc *UnitUsecase) ListCanonUnits(ctx context.Context, canonID int64) ([]domain.CanonUnit, error) {
	ctx, span := tracer.Start(ctx, "Unit.Usecase.ListCanonUnits")
	defer span.End()

	units, err := uc.units.ListCanonUnits(ctx, canonID)
	return units, recordError(span, err)
}

// PutPayload inserts or replaces the text of a unit for one edition,
// layer and language.
func (uc *UnitUsecase) PutPayload(ctx context.Context, payload domain.TextPayload) (domain.TextPayload, error) {
	ctx, span := tracer.Start(ctx, "Unit.Usecase.PutPayload")
	defer span.End()

	payload.Layer = strings.TrimSpace(payload.Layer)
	if payload.Layer == "" {
		return domain.TextPayload{}, recordError(span, domain.ValidationError{Field: "layer", Message: "is required"})
	}
	if _, err := uc.units.GetUnit(ctx, payload.UnitID); err != nil {
		return domain.TextPayload{}, recordError(span, err)
	}
	if _, err := uc.refs.GetSource(ctx, payload.EditionID); err != nil {
		return domain.TextPayload{}, recordError(span, referenceError(err, "editionId", "source", payload.EditionID))
	}
	language, err := uc.refs.GetLanguage(ctx, payload.LanguageID)
	if err != nil {
		return domain.TextPayload{}, recordError(span, referenceError(err, "languageId", "language", payload.LanguageID))
	}

	payload.Content = uc.normalizer.Normalize(language.Script, payload.Content)

	saved, err := uc.units.PutPayload(ctx, payload)
	if err != nil {
		return domain.TextPayload{}, recordError(span, err)
	}
	uc.logger.InfoContext(ctx, "payload stored",
		slog.String("unitId", saved.UnitID),
		slog.Int64("editionId", saved.EditionID),
		slog.String("layer", saved.Layer),
	)
	return saved, nil
}

func referenceUnitError(err error, unitID string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ValidationError{Field: "unitId", Message: "text unit " + unitID + " does not exist"}
	}
	return err
}
