package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/totegamma/textcanon"
	"github.com/totegamma/textcanon/internal/domain"
)

type ReferenceUsecase struct {
	refs   ReferenceRepository
	logger *slog.Logger
}

func NewReferenceUsecase(refs ReferenceRepository, logger *slog.Logger) *ReferenceUsecase {
	return &ReferenceUsecase{refs: refs, logger: orDefault(logger)}
}

func validateCode(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", domain.ValidationError{Field: "code", Message: "is required"}
	}
	if !textcanon.IsKeyComponent(code) {
		return "", domain.ValidationError{Field: "code", Message: "must not contain " + textcanon.UnitKeySeparator}
	}
	return code, nil
}

func (uc *ReferenceUsecase) SaveLanguage(ctx context.Context, l domain.Language) (domain.Language, error) {
	ctx, span := tracer.Start(ctx, "Reference.Usecase.SaveLanguage")
	defer span.End()

	code, err := validateCode(l.Code)
	if err != nil {
		return domain.Language{}, recordError(span, err)
	}
	l.Code = code
	l.Script = strings.TrimSpace(l.Script)

	saved, err := uc.refs.SaveLanguage(ctx, l)
	return saved, recordError(span, err)
}

func (uc *ReferenceUsecase) SaveUnitType(ctx context.Context, u domain.UnitType) (domain.UnitType, error) {
	ctx, span := tracer.Start(ctx, "Reference.Usecase.SaveUnitType")
	defer span.End()

	code, err := validateCode(u.Code)
	if err != nil {
		return domain.UnitType{}, recordError(span, err)
	}
	u.Code = code

	saved, err := uc.refs.SaveUnitType(ctx, u)
	return saved, recordError(span, err)
}

// SaveSource upserts a source by code. Its optional language and default
// unit type must exist.
func (uc *ReferenceUsecase) SaveSource(ctx context.Context, s domain.Source) (domain.Source, error) {
	ctx, span := tracer.Start(ctx, "Reference.Usecase.SaveSource")
	defer span.End()

	code, err := validateCode(s.Code)
	if err != nil {
		return domain.Source{}, recordError(span, err)
	}
	s.Code = code

	if s.LanguageID != nil {
		if _, err := uc.refs.GetLanguage(ctx, *s.LanguageID); err != nil {
			return domain.Source{}, recordError(span, referenceError(err, "languageId", "language", *s.LanguageID))
		}
	}
	if s.DefaultUnitTypeID != nil {
		if _, err := uc.refs.GetUnitType(ctx, *s.DefaultUnitTypeID); err != nil {
			return domain.Source{}, recordError(span, referenceError(err, "defaultUnitTypeId", "unit type", *s.DefaultUnitTypeID))
		}
	}

	saved, err := uc.refs.SaveSource(ctx, s)
	return saved, recordError(span, err)
}

func (uc *ReferenceUsecase) SaveBook(ctx context.Context, b domain.Book) (domain.Book, error) {
	ctx, span := tracer.Start(ctx, "Reference.Usecase.SaveBook")
	defer span.End()

	code, err := validateCode(b.Code)
	if err != nil {
		return domain.Book{}, recordError(span, err)
	}
	b.Code = code

	saved, err := uc.refs.SaveBook(ctx, b)
	return saved, recordError(span, err)
}

func (uc *ReferenceUsecase) SaveCanon(ctx context.Context, c domain.Canon) (domain.Canon, error) {
	ctx, span := tracer.Start(ctx, "Reference.Usecase.SaveCanon")
	defer span.End()

	code, err := validateCode(c.Code)
	if err != nil {
		return domain.Canon{}, recordError(span, err)
	}
	c.Code = code

	saved, err := uc.refs.SaveCanon(ctx, c)
	return saved, recordError(span, err)
}

func (uc *ReferenceUsecase) GetLanguage(ctx context.Context, id int64) (domain.Language, error) {
	return uc.refs.GetLanguage(ctx, id)
}

func (uc *ReferenceUsecase) GetSource(ctx context.Context, id int64) (domain.Source, error) {
	return uc.refs.GetSource(ctx, id)
}

func (uc *ReferenceUsecase) GetBook(ctx context.Context, id int64) (domain.Book, error) {
	return uc.refs.GetBook(ctx, id)
}

func (uc *ReferenceUsecase) ListCanons(ctx context.Context) ([]domain.Canon, error) {
	ctx, span := tracer.Start(ctx, "Reference.Usecase.ListCanons")
	defer span.End()

	canons, err := uc.refs.ListCanons(ctx)
	return canons, recordError(span, err)
}

// Seed is a set of reference rows loaded in dependency order. Sources name
// their language and default unit type by code.
type Seed struct {
	Languages []domain.Language `yaml:"languages"`
	UnitTypes []domain.UnitType `yaml:"unitTypes"`
	Sources   []SeedSource      `yaml:"sources"`
	Books     []domain.Book     `yaml:"books"`
	Canons    []domain.Canon    `yaml:"canons"`
}

type SeedSource struct {
	Code            string `yaml:"code"`
	Name            string `yaml:"name"`
	Language        string `yaml:"language"`
	DefaultUnitType string `yaml:"defaultUnitType"`
}

// ApplySeed upserts every row of seed and returns the number written.
func (uc *ReferenceUsecase) ApplySeed(ctx context.Context, seed Seed) (int, error) {
	ctx, span := tracer.Start(ctx, "Reference.Usecase.ApplySeed")
	defer span.End()

	languages := map[string]int64{}
	unitTypes := map[string]int64{}
	written := 0

	for _, l := range seed.Languages {
		saved, err := uc.SaveLanguage(ctx, l)
		if err != nil {
			return written, recordError(span, err)
		}
		languages[saved.Code] = saved.ID
		written++
	}
	for _, u := range seed.UnitTypes {
		saved, err := uc.SaveUnitType(ctx, u)
		if err != nil {
			return written, recordError(span, err)
		}
		unitTypes[saved.Code] = saved.ID
		written++
	}
	for _, s := range seed.Sources {
		source := domain.Source{Code: s.Code, Name: s.Name}
		if s.Language != "" {
			id, ok := languages[s.Language]
			if !ok {
				return written, recordError(span, domain.ValidationError{Field: "language", Message: "unknown language " + s.Language + " for source " + s.Code})
			}
			source.LanguageID = &id
		}
		if s.DefaultUnitType != "" {
			id, ok := unitTypes[s.DefaultUnitType]
			if !ok {
				return written, recordError(span, domain.ValidationError{Field: "defaultUnitType", Message: "unknown unit type " + s.DefaultUnitType + " for source " + s.Code})
			}
			source.DefaultUnitTypeID = &id
		}
		if _, err := uc.SaveSource(ctx, source); err != nil {
			return written, recordError(span, err)
		}
		written++
	}
	for _, b := range seed.Books {
		if _, err := uc.SaveBook(ctx, b); err != nil {
			return written, recordError(span, err)
		}
		written++
	}
	for _, c := range seed.Canons {
		if _, err := uc.SaveCanon(ctx, c); err != nil {
			return written, recordError(span, err)
		}
		written++
	}

	uc.logger.InfoContext(ctx, "seed applied", slog.Int("rows", written))
	return written, nil
}
