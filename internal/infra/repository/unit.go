package repository

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/totegamma/textcanon/internal/domain"
	"github.com/totegamma/textcanon/internal/infra/database/models"
)

// UnitRepository stores the unit_id keyed numbering scheme: text units,
// their canon placement and their payloads.
type UnitRepository struct {
	db *gorm.DB
}

func NewUnitRepository(db *gorm.DB) *UnitRepository {
	return &UnitRepository{db: db}
}

func (r *UnitRepository) CreateUnit(ctx context.Context, unit domain.TextUnit) (domain.TextUnit, error) {
	row := models.TextUnit{
		UnitID:       unit.UnitID,
		Tradition:    unit.Tradition,
		DivisionCode: unit.DivisionCode,
		Chapter:      unit.Chapter,
		Verse:        unit.Verse,
		Subref:       unit.Subref,
	}

	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&row).Error
	if isDuplicate(err) {
		return domain.TextUnit{}, r.unitConflict(ctx, row)
	}
	if err != nil {
		return domain.TextUnit{}, errors.Wrap(err, "UnitRepository.CreateUnit")
	}
	return r.GetUnit(ctx, row.UnitID)
}

// unitConflict reports which unique key the new unit collided on.
func (r *UnitRepository) unitConflict(ctx context.Context, row models.TextUnit) error {
	var existing models.TextUnit
	err := r.db.WithContext(ctx).Where("unit_id = ?", row.UnitID).Take(&existing).Error
	if err == nil {
		return domain.KeyConflictError{Key: row.UnitID, ExistingID: existing.UnitID}
	}

	err = r.db.WithContext(ctx).
		Where("tradition = ? AND division_code = ? AND chapter = ? AND verse = ? AND subref = ?",
			row.Tradition, row.DivisionCode, row.Chapter, row.Verse, row.Subref).
		Take(&existing).Error
	if err != nil && !isNotFound(err) {
		return errors.Wrap(err, "UnitRepository.unitConflict")
	}
	return domain.KeyConflictError{
		Key:        fmt.Sprintf("%s %s %d:%d%s", row.Tradition, row.DivisionCode, row.Chapter, row.Verse, row.Subref),
		ExistingID: existing.UnitID,
	}
}

func (r *UnitRepository) GetUnit(ctx context.Context, unitID string) (domain.TextUnit, error) {
	var row models.TextUnit
	err := r.db.WithContext(ctx).Where("unit_id = ?", unitID).Take(&row).Error
	if isNotFound(err) {
		return domain.TextUnit{}, domain.NotFoundError{Resource: "text unit"}
	}
	if err != nil {
		return domain.TextUnit{}, errors.Wrap(err, "UnitRepository.GetUnit")
	}
	return toDomainTextUnit(row), nil
}

func (r *UnitRepository) MapToCanon(ctx context.Context, canonID int64, unitID string, sequence int) (domain.CanonMap, error) {
	row := models.CanonMap{CanonID: canonID, UnitID: unitID, Sequence: sequence}

	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&row).Error
	if isDuplicate(err) {
		var existing models.CanonMap
		if lookupErr := r.db.WithContext(ctx).Where("canon_id = ? AND unit_id = ?", canonID, unitID).Take(&existing).Error; lookupErr != nil {
			return domain.CanonMap{}, errors.Wrap(lookupErr, "UnitRepository.MapToCanon")
		}
		return domain.CanonMap{}, domain.KeyConflictError{
			Key:        fmt.Sprintf("canon %d / unit %s", canonID, unitID),
			ExistingID: fmt.Sprintf("%d", existing.ID),
		}
	}
	if isForeignKey(err) {
		return domain.CanonMap{}, domain.ValidationError{Field: "canonMap", Message: "canon or unit does not exist"}
	}
	if err != nil {
		return domain.CanonMap{}, errors.Wrap(err, "UnitRepository.MapToCanon")
	}

	return domain.CanonMap{ID: row.ID, CanonID: row.CanonID, UnitID: row.UnitID, Sequence: row.Sequence}, nil
}

// ListCanonUnits returns the units of a canon in sequence order.
func (r *UnitRepository) ListCanonUnits(ctx context.Context, canonID int64) ([]domain.CanonUnit, error) {
	var rows []models.CanonMap
	err := r.db.WithContext(ctx).
		Where("canon_id = ?", canonID).
		Order("sequence ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "UnitRepository.ListCanonUnits")
	}
	if len(rows) == 0 {
		return []domain.CanonUnit{}, nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.UnitID)
	}
	var unitRows []models.TextUnit
	if err := r.db.WithContext(ctx).Where("unit_id IN ?", ids).Find(&unitRows).Error; err != nil {
		return nil, errors.Wrap(err, "UnitRepository.ListCanonUnits")
	}
	byID := make(map[string]models.TextUnit, len(unitRows))
	for _, u := range unitRows {
		byID[u.UnitID] = u
	}

	units := make([]domain.CanonUnit, 0, len(rows))
	for _, row := range rows {
		units = append(units, domain.CanonUnit{Sequence: row.Sequence, Unit: toDomainTextUnit(byID[row.UnitID])})
	}
	return units, nil
}

// PutPayload upserts on (unit, edition, layer, language).
func (r *UnitRepository) PutPayload(ctx context.Context, payload domain.TextPayload) (domain.TextPayload, error) {
	row := models.TextPayload{
		UnitID:     payload.UnitID,
		EditionID:  payload.EditionID,
		Layer:      payload.Layer,
		LanguageID: payload.LanguageID,
		Content:    payload.Content,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "unit_id"}, {Name: "edition_id"}, {Name: "layer"}, {Name: "language_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"content", "updated_at"}),
		}).Create(&row).Error
		if err != nil {
			return err
		}
		var stored models.TextPayload
		err = tx.Where("unit_id = ? AND edition_id = ? AND layer = ? AND language_id = ?",
			row.UnitID, row.EditionID, row.Layer, row.LanguageID).Take(&stored).Error
		row = stored
		return err
	})
	if isForeignKey(err) {
		return domain.TextPayload{}, domain.ValidationError{Field: "payload", Message: "unit, edition or language does not exist"}
	}
	if err != nil {
		return domain.TextPayload{}, errors.Wrap(err, "UnitRepository.PutPayload")
	}
	return toDomainPayload(row), nil
}

func (r *UnitRepository) ListPayloads(ctx context.Context, unitID string) ([]domain.TextPayload, error) {
	var rows []models.TextPayload
	err := r.db.WithContext(ctx).
		Where("unit_id = ?", unitID).
		Order("edition_id ASC, layer ASC, language_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "UnitRepository.ListPayloads")
	}

	payloads := make([]domain.TextPayload, 0, len(rows))
	for _, row := range rows {
		payloads = append(payloads, toDomainPayload(row))
	}
	return payloads, nil
}
