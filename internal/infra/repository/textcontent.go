package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/totegamma/textcanon/internal/domain"
	"github.com/totegamma/textcanon/internal/infra/database/models"
)

type TextContentRepository struct {
	db *gorm.DB
}

func NewTextContentRepository(db *gorm.DB) *TextContentRepository {
	return &TextContentRepository{db: db}
}

func (r *TextContentRepository) Get(ctx context.Context, id int64) (domain.TextContent, error) {
	var row models.TextContent
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if isNotFound(err) {
		return domain.TextContent{}, domain.NotFoundError{Resource: "text content"}
	}
	if err != nil {
		return domain.TextContent{}, errors.Wrap(err, "TextContentRepository.Get")
	}
	return toDomainTextContent(row), nil
}

// FindByUnitKey looks the key up inside the (source, book) scope.
func (r *TextContentRepository) FindByUnitKey(ctx context.Context, sourceID, bookID int64, unitKey string) (domain.TextContent, error) {
	var row models.TextContent
	err := r.db.WithContext(ctx).
		Where("source_id = ? AND book_id = ? AND unit_key = ?", sourceID, bookID, unitKey).
		Take(&row).Error
	if isNotFound(err) {
		return domain.TextContent{}, domain.NotFoundError{Resource: "text content"}
	}
	if err != nil {
		return domain.TextContent{}, errors.Wrap(err, "TextContentRepository.FindByUnitKey")
	}
	return toDomainTextContent(row), nil
}

// Create inserts the row and, when canonIDs is non-nil, its canon
// memberships in one transaction.
func (r *TextContentRepository) Create(ctx context.Context, content domain.TextContent, canonIDs []int64) (domain.TextContent, error) {
	row := fromDomainTextContent(content)
	row.ID = 0

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&row).Error; err != nil {
			return err
		}
		if canonIDs != nil {
			return replaceCanons(tx, row.ID, canonIDs)
		}
		return nil
	})
	if err != nil {
		return domain.TextContent{}, r.translate(ctx, err, row, "TextContentRepository.Create")
	}

	return r.Get(ctx, row.ID)
}

// Update writes every column of content except id and created_at. A nil
// canonIDs leaves canon memberships alone; a non-nil one replaces them.
func (r *TextContentRepository) Update(ctx context.Context, content domain.TextContent, canonIDs []int64) (domain.TextContent, error) {
	row := fromDomainTextContent(content)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.TextContent{}).
			Where("id = ?", row.ID).
			Updates(map[string]any{
				"source_id":              row.SourceID,
				"book_id":                row.BookID,
				"unit_type_id":           row.UnitTypeID,
				"language_id":            row.LanguageID,
				"parent_unit_id":         row.ParentUnitID,
				"unit_group":             row.UnitGroup,
				"unit":                   row.Unit,
				"content":                row.Content,
				"unit_key":               row.UnitKey,
				"literal_reconstruction": row.LiteralReconstruction,
				"word_for_word":          row.WordForWord,
				"updated_at":             time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.NotFoundError{Resource: "text content"}
		}
		if canonIDs != nil {
			return replaceCanons(tx, row.ID, canonIDs)
		}
		return nil
	})
	if err != nil {
		return domain.TextContent{}, r.translate(ctx, err, row, "TextContentRepository.Update")
	}

	return r.Get(ctx, row.ID)
}

// Delete removes the row; canon memberships, translations and child units
// cascade.
func (r *TextContentRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.TextContent{}, "id = ?", id)
	if res.Error != nil {
		return errors.Wrap(res.Error, "TextContentRepository.Delete")
	}
	if res.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "text content"}
	}
	return nil
}

// translate turns store constraint violations into domain errors. It runs
// after the transaction has been rolled back.
func (r *TextContentRepository) translate(ctx context.Context, err error, row models.TextContent, op string) error {
	var (
		notFound   domain.NotFoundError
		validation domain.ValidationError
	)
	if errors.As(err, &notFound) || errors.As(err, &validation) {
		return err
	}

	if isDuplicate(err) && row.UnitKey != nil {
		return r.conflict(ctx, row)
	}
	if isForeignKey(err) {
		return domain.ValidationError{
			Field:   "reference",
			Message: "source, book, unit type, language or parent unit does not exist",
		}
	}
	return errors.Wrap(err, op)
}

func (r *TextContentRepository) conflict(ctx context.Context, row models.TextContent) error {
	type conflictRow struct {
		ID         int64  `gorm:"column:id"`
		SourceCode string `gorm:"column:source_code"`
		BookCode   string `gorm:"column:book_code"`
	}

	var existing conflictRow
	err := r.db.WithContext(ctx).
		Table("text_contents AS tc").
		Select("tc.id AS id, s.code AS source_code, b.code AS book_code").
		Joins("JOIN sources s ON s.id = tc.source_id").
		Joins("JOIN books b ON b.id = tc.book_id").
		Where("tc.source_id = ? AND tc.book_id = ? AND tc.unit_key = ?", row.SourceID, row.BookID, *row.UnitKey).
		Limit(1).
		Scan(&existing).Error
	if err != nil {
		return errors.Wrap(err, "TextContentRepository.conflict")
	}

	return domain.KeyConflictError{
		Key:        *row.UnitKey,
		SourceCode: existing.SourceCode,
		BookCode:   existing.BookCode,
		ExistingID: strconv.FormatInt(existing.ID, 10),
	}
}
