package repository

import (
	"context"
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/totegamma/textcanon/internal/domain"
	"github.com/totegamma/textcanon/internal/infra/database/models"
)

type CanonRepository struct {
	db *gorm.DB
}

func NewCanonRepository(db *gorm.DB) *CanonRepository {
	return &CanonRepository{db: db}
}

// SetCanons replaces the membership set of a text content.
func (r *CanonRepository) SetCanons(ctx context.Context, textContentID int64, canonIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.TextContent{}).Where("id = ?", textContentID).Count(&count).Error; err != nil {
			return errors.Wrap(err, "CanonRepository.SetCanons")
		}
		if count == 0 {
			return domain.NotFoundError{Resource: "text content"}
		}
		return replaceCanons(tx, textContentID, canonIDs)
	})
}

func (r *CanonRepository) ListCanonsFor(ctx context.Context, textContentID int64) ([]domain.CanonRef, error) {
	var rows []models.Canon
	err := r.db.WithContext(ctx).
		Model(&models.Canon{}).
		Joins("JOIN canon_text_contents ctc ON ctc.canon_id = canons.id").
		Where("ctc.text_content_id = ?", textContentID).
		Order("canons.display_order ASC, canons.id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "CanonRepository.ListCanonsFor")
	}

	refs := make([]domain.CanonRef, 0, len(rows))
	for _, row := range rows {
		refs = append(refs, domain.CanonRef{
			ID:           row.ID,
			Code:         row.Code,
			Name:         row.Name,
			DisplayOrder: row.DisplayOrder,
		})
	}
	return refs, nil
}

// FindByCanon lists member text contents by book then natural unit order.
func (r *CanonRepository) FindByCanon(ctx context.Context, canonID int64) ([]domain.TextContent, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Canon{}).Where("id = ?", canonID).Count(&count).Error; err != nil {
		return nil, errors.Wrap(err, "CanonRepository.FindByCanon")
	}
	if count == 0 {
		return nil, domain.NotFoundError{Resource: "canon"}
	}

	var rows []models.TextContent
	err := r.db.WithContext(ctx).
		Model(&models.TextContent{}).
		Joins("JOIN canon_text_contents ctc ON ctc.text_content_id = text_contents.id").
		Where("ctc.canon_id = ?", canonID).
		Order("text_contents.book_id ASC").
		Order("LENGTH(text_contents.unit_group) ASC, text_contents.unit_group ASC").
		Order("LENGTH(text_contents.unit) ASC, text_contents.unit ASC").
		Order("text_contents.id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "CanonRepository.FindByCanon")
	}

	contents := make([]domain.TextContent, 0, len(rows))
	for _, row := range rows {
		contents = append(contents, toDomainTextContent(row))
	}
	return contents, nil
}

// replaceCanons deletes every membership of textContentID and inserts
// canonIDs. Duplicate ids collapse; unknown ids are rejected before any
// write.
func replaceCanons(tx *gorm.DB, textContentID int64, canonIDs []int64) error {
	ids := uniqueIDs(canonIDs)

	if len(ids) > 0 {
		var found []int64
		if err := tx.Model(&models.Canon{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
			return err
		}
		if missing := missingIDs(ids, found); len(missing) > 0 {
			return domain.ValidationError{
				Field:   "canonIds",
				Message: fmt.Sprintf("canon %v does not exist", missing),
			}
		}
	}

	if err := tx.Where("text_content_id = ?", textContentID).Delete(&models.CanonTextContent{}).Error; err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	rows := make([]models.CanonTextContent, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, models.CanonTextContent{TextContentID: textContentID, CanonID: id})
	}
	return tx.Omit(clause.Associations).Create(&rows).Error
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func missingIDs(want, found []int64) []int64 {
	have := make(map[int64]struct{}, len(found))
	for _, id := range found {
		have[id] = struct{}{}
	}
	var missing []int64
	for _, id := range want {
		if _, ok := have[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
