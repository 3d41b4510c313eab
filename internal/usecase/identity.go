package usecase

import (
	"context"
	"strconv"

	"github.com/pkg/errors"

	"github.com/totegamma/textcanon"
	"github.com/totegamma/textcanon/internal/domain"
)

// IdentityResolver derives unit keys and checks them against the
// (source, book) scope before a write. The store's unique index is the
// final arbiter when two writers race.
type IdentityResolver struct {
	refs     ReferenceRepository
	contents TextContentRepository
}

func NewIdentityResolver(refs ReferenceRepository, contents TextContentRepository) *IdentityResolver {
	return &IdentityResolver{refs: refs, contents: contents}
}

// DeriveKey resolves the source and book codes and derives the unit key.
// It returns "" when the coordinates are incomplete.
func (r *IdentityResolver) DeriveKey(ctx context.Context, sourceID, bookID int64, unitGroup, unit string) (string, error) {
	source, book, err := r.scope(ctx, sourceID, bookID)
	if err != nil {
		return "", err
	}
	key, _ := textcanon.DeriveUnitKey(source.Code, book.Code, unitGroup, unit)
	return key, nil
}

// ReserveKey returns the derived key when no other text content than
// excludingID holds it in the same (source, book) scope, and a
// KeyConflictError otherwise. Incomplete coordinates yield "".
func (r *IdentityResolver) ReserveKey(ctx context.Context, sourceID, bookID int64, unitGroup, unit string, excludingID int64) (string, error) {
	ctx, span := tracer.Start(ctx, "Identity.Resolver.ReserveKey")
	defer span.End()

	source, book, err := r.scope(ctx, sourceID, bookID)
	if err != nil {
		return "", recordError(span, err)
	}

	key, ok := textcanon.DeriveUnitKey(source.Code, book.Code, unitGroup, unit)
	if !ok {
		return "", nil
	}

	existing, err := r.contents.FindByUnitKey(ctx, sourceID, bookID, key)
	if errors.Is(err, domain.ErrNotFound) {
		return key, nil
	}
	if err != nil {
		return "", recordError(span, err)
	}
	if existing.ID == excludingID {
		return key, nil
	}

	return "", recordError(span, domain.KeyConflictError{
		Key:        key,
		SourceCode: source.Code,
		BookCode:   book.Code,
		ExistingID: strconv.FormatInt(existing.ID, 10),
	})
}

func (r *IdentityResolver) scope(ctx context.Context, sourceID, bookID int64) (domain.Source, domain.Book, error) {
	source, err := r.refs.GetSource(ctx, sourceID)
	if err != nil {
		return domain.Source{}, domain.Book{}, referenceError(err, "sourceId", "source", sourceID)
	}
	book, err := r.refs.GetBook(ctx, bookID)
	if err != nil {
		return domain.Source{}, domain.Book{}, referenceError(err, "bookId", "book", bookID)
	}
	return source, book, nil
}
