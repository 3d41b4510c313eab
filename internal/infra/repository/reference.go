package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/totegamma/textcanon/internal/domain"
	"github.com/totegamma/textcanon/internal/infra/database/models"
)

// ReferenceRepository serves the pre-populated lookup tables. Rows are
// cached in-process because content references them by id on every write.
type ReferenceRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewReferenceRepository(db *gorm.DB) *ReferenceRepository {
	return &ReferenceRepository{
		db:    db,
		cache: cache.New(10*time.Minute, 15*time.Minute),
	}
}

func cached[T any](c *cache.Cache, key string, load func() (T, error)) (T, error) {
	if x, found := c.Get(key); found {
		return x.(T), nil
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	c.Set(key, v, cache.DefaultExpiration)
	return v, nil
}

func take[M any](ctx context.Context, db *gorm.DB, resource string, query string, args ...any) (M, error) {
	var m M
	err := db.WithContext(ctx).Where(query, args...).Take(&m).Error
	if isNotFound(err) {
		return m, domain.NotFoundError{Resource: resource}
	}
	if err != nil {
		return m, errors.Wrap(err, "ReferenceRepository: take "+resource)
	}
	return m, nil
}

func (r *ReferenceRepository) GetLanguage(ctx context.Context, id int64) (domain.Language, error) {
	return cached(r.cache, fmt.Sprintf("language:%d", id), func() (domain.Language, error) {
		m, err := take[models.Language](ctx, r.db, "language", "id = ?", id)
		return toDomainLanguage(m), err
	})
}

func (r *ReferenceRepository) GetUnitType(ctx context.Context, id int64) (domain.UnitType, error) {
	return cached(r.cache, fmt.Sprintf("unit_type:%d", id), func() (domain.UnitType, error) {
		m, err := take[models.UnitType](ctx, r.db, "unit type", "id = ?", id)
		return toDomainUnitType(m), err
	})
}

func (r *ReferenceRepository) GetSource(ctx context.Context, id int64) (domain.Source, error) {
	return cached(r.cache, fmt.Sprintf("source:%d", id), func() (domain.Source, error) {
		m, err := take[models.Source](ctx, r.db, "source", "id = ?", id)
		return toDomainSource(m), err
	})
}

func (r *ReferenceRepository) GetBook(ctx context.Context, id int64) (domain.Book, error) {
	return cached(r.cache, fmt.Sprintf("book:%d", id), func() (domain.Book, error) {
		m, err := take[models.Book](ctx, r.db, "book", "id = ?", id)
		return toDomainBook(m), err
	})
}

func (r *ReferenceRepository) FindSourceByCode(ctx context.Context, code string) (domain.Source, error) {
	return cached(r.cache, "source_code:"+code, func() (domain.Source, error) {
		m, err := take[models.Source](ctx, r.db, "source", "code = ?", code)
		return toDomainSource(m), err
	})
}

func (r *ReferenceRepository) FindBookByCode(ctx context.Context, code string) (domain.Book, error) {
	return cached(r.cache, "book_code:"+code, func() (domain.Book, error) {
		m, err := take[models.Book](ctx, r.db, "book", "code = ?", code)
		return toDomainBook(m), err
	})
}

// GetCanons returns the canons with the given ids ordered by display order.
// Missing ids are simply absent from the result.
func (r *ReferenceRepository) GetCanons(ctx context.Context, ids []int64) ([]domain.Canon, error) {
	if len(ids) == 0 {
		return []domain.Canon{}, nil
	}
	var rows []models.Canon
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("display_order ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "ReferenceRepository.GetCanons")
	}
	canons := make([]domain.Canon, 0, len(rows))
	for _, row := range rows {
		canons = append(canons, toDomainCanon(row))
	}
	return canons, nil
}

func (r *ReferenceRepository) ListCanons(ctx context.Context) ([]domain.Canon, error) {
	var rows []models.Canon
	err := r.db.WithContext(ctx).Order("display_order ASC, id ASC").Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "ReferenceRepository.ListCanons")
	}
	canons := make([]domain.Canon, 0, len(rows))
	for _, row := range rows {
		canons = append(canons, toDomainCanon(row))
	}
	return canons, nil
}

// upsertByCode inserts row or updates columns of the row sharing its code,
// then reloads it so the id is populated on every dialect.
func upsertByCode[M any](ctx context.Context, db *gorm.DB, row *M, code string, columns []string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns(columns),
		}).Create(row).Error
		if isForeignKey(err) {
			return domain.ValidationError{Field: "code", Message: fmt.Sprintf("%s references a missing row", code)}
		}
		if err != nil {
			return err
		}
		var stored M
		if err := tx.Where("code = ?", code).Take(&stored).Error; err != nil {
			return err
		}
		*row = stored
		return nil
	})
}

func (r *ReferenceRepository) SaveLanguage(ctx context.Context, l domain.Language) (domain.Language, error) {
	row := models.Language{Code: l.Code, Name: l.Name, Script: l.Script}
	if err := upsertByCode(ctx, r.db, &row, row.Code, []string{"name", "script"}); err != nil {
		return domain.Language{}, errors.Wrap(err, "ReferenceRepository.SaveLanguage")
	}
	r.cache.Delete(fmt.Sprintf("language:%d", row.ID))
	return toDomainLanguage(row), nil
}

func (r *ReferenceRepository) SaveUnitType(ctx context.Context, u domain.UnitType) (domain.UnitType, error) {
	row := models.UnitType{Code: u.Code, Name: u.Name}
	if err := upsertByCode(ctx, r.db, &row, row.Code, []string{"name"}); err != nil {
		return domain.UnitType{}, errors.Wrap(err, "ReferenceRepository.SaveUnitType")
	}
	r.cache.Delete(fmt.Sprintf("unit_type:%d", row.ID))
	return toDomainUnitType(row), nil
}

func (r *ReferenceRepository) SaveSource(ctx context.Context, s domain.Source) (domain.Source, error) {
	row := models.Source{
		Code:              s.Code,
		Name:              s.Name,
		LanguageID:        s.LanguageID,
		DefaultUnitTypeID: s.DefaultUnitTypeID,
	}
	columns := []string{"name", "language_id", "default_unit_type_id"}
	if err := upsertByCode(ctx, r.db, &row, row.Code, columns); err != nil {
		return domain.Source{}, errors.Wrap(err, "ReferenceRepository.SaveSource")
	}
	r.cache.Delete(fmt.Sprintf("source:%d", row.ID))
	r.cache.Delete("source_code:" + row.Code)
	return toDomainSource(row), nil
}

func (r *ReferenceRepository) SaveBook(ctx context.Context, b domain.Book) (domain.Book, error) {
	row := models.Book{Code: b.Code, Name: b.Name}
	if err := upsertByCode(ctx, r.db, &row, row.Code, []string{"name"}); err != nil {
		return domain.Book{}, errors.Wrap(err, "ReferenceRepository.SaveBook")
	}
	r.cache.Delete(fmt.Sprintf("book:%d", row.ID))
	r.cache.Delete("book_code:" + row.Code)
	return toDomainBook(row), nil
}

func (r *ReferenceRepository) SaveCanon(ctx context.Context, c domain.Canon) (domain.Canon, error) {
	row := models.Canon{Code: c.Code, Name: c.Name, DisplayOrder: c.DisplayOrder}
	if err := upsertByCode(ctx, r.db, &row, row.Code, []string{"name", "display_order"}); err != nil {
		return domain.Canon{}, errors.Wrap(err, "ReferenceRepository.SaveCanon")
	}
	return toDomainCanon(row), nil
}
