package usecase

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/totegamma/textcanon/internal/domain"
)

var tracer = otel.Tracer("usecase")

// ReferenceRepository looks up and maintains languages, unit types,
// sources, books and canons.
type ReferenceRepository interface {
	GetLanguage(ctx context.Context, id int64) (domain.Language, error)
	GetUnitType(ctx context.Context, id int64) (domain.UnitType, error)
	GetSource(ctx context.Context, id int64) (domain.Source, error)
	GetBook(ctx context.Context, id int64) (domain.Book, error)
	FindSourceByCode(ctx context.Context, code string) (domain.Source, error)
	FindBookByCode(ctx context.Context, code string) (domain.Book, error)
	GetCanons(ctx context.Context, ids []int64) ([]domain.Canon, error)
	ListCanons(ctx context.Context) ([]domain.Canon, error)
	SaveLanguage(ctx context.Context, l domain.Language) (domain.Language, error)
	SaveUnitType(ctx context.Context, u domain.UnitType) (domain.UnitType, error)
	SaveSource(ctx context.Context, s domain.Source) (domain.Source, error)
	SaveBook(ctx context.Context, b domain.Book) (domain.Book, error)
	SaveCanon(ctx context.Context, c domain.Canon) (domain.Canon, error)
}

// TextContentRepository persists text contents. Create and Update replace
// canon memberships in the same transaction when canonIDs is non-nil.
type TextContentRepository interface {
	Get(ctx context.Context, id int64) (domain.TextContent, error)
	FindByUnitKey(ctx context.Context, sourceID, bookID int64, unitKey string) (domain.TextContent, error)
	Create(ctx context.Context, content domain.TextContent, canonIDs []int64) (domain.TextContent, error)
	Update(ctx context.Context, content domain.TextContent, canonIDs []int64) (domain.TextContent, error)
	Delete(ctx context.Context, id int64) error
}

// CanonRepository maintains the text content / canon join.
type CanonRepository interface {
	SetCanons(ctx context.Context, textContentID int64, canonIDs []int64) error
	ListCanonsFor(ctx context.Context, textContentID int64) ([]domain.CanonRef, error)
	FindByCanon(ctx context.Context, canonID int64) ([]domain.TextContent, error)
}

// TranslationRepository is the append-only revision ledger.
type TranslationRepository interface {
	Append(ctx context.Context, t domain.TextTranslation, scope domain.RevisionScope) (domain.TextTranslation, error)
	Promote(ctx context.Context, id int64) (domain.TextTranslation, error)
	Confirm(ctx context.Context, id int64, confirmedBy string, at time.Time) (domain.TextTranslation, error)
	Get(ctx context.Context, id int64) (domain.TextTranslation, error)
	Latest(ctx context.Context, textContentID, languageID int64) (domain.TextTranslation, error)
	History(ctx context.Context, textContentID, languageID int64) ([]domain.TextTranslation, error)
}

// UnitRepository stores text units, canon maps and payloads.
type UnitRepository interface {
	CreateUnit(ctx context.Context, unit domain.TextUnit) (domain.TextUnit, error)
	GetUnit(ctx context.Context, unitID string) (domain.TextUnit, error)
	MapToCanon(ctx context.Context, canonID int64, unitID string, sequence int) (domain.CanonMap, error)
	ListCanonUnits(ctx context.Context, canonID int64) ([]domain.CanonUnit, error)
	PutPayload(ctx context.Context, payload domain.TextPayload) (domain.TextPayload, error)
	ListPayloads(ctx context.Context, unitID string) ([]domain.TextPayload, error)
}

// TranslationCache caches latest revisions. Implementations swallow their
// own failures. GetLatest returns a generation on a miss; SetLatest must be
// given that generation so an invalidation in between discards the write.
type TranslationCache interface {
	GetLatest(ctx context.Context, textContentID, languageID int64) (domain.TextTranslation, uint64, bool)
	SetLatest(ctx context.Context, t domain.TextTranslation, generation uint64)
	InvalidateLatest(ctx context.Context, textContentID, languageID int64)
}

// EventPublisher announces committed changes.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// Normalizer canonicalizes text for a script.
type Normalizer interface {
	Normalize(script, text string) string
}
