package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/totegamma/textcanon"
	"github.com/totegamma/textcanon/internal/domain"
)

type translationFixture struct {
	repo  *mockTranslationRepo
	cache *mockTranslationCache
	uc    *TranslationUsecase
	id    int64
}

func newTranslationFixture(t *testing.T, scope domain.RevisionScope) translationFixture {
	refs := newMockRefRepo()
	contents := newMockContentRepo()
	created, err := contents.Create(context.Background(), domain.TextContent{SourceID: 1, BookID: 1, LanguageID: 1}, nil)
	require.NoError(t, err)

	repo := &mockTranslationRepo{}
	cache := newMockTranslationCache()
	uc := NewTranslationUsecase(repo, contents, refs, cache, &mockPublisher{}, domain.LedgerConfig{RevisionScope: scope}, nil)
	uc.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return translationFixture{repo: repo, cache: cache, uc: uc, id: created.ID}
}

func TestAppendRevisionNumbersAndLatest(t *testing.T) {
	f := newTranslationFixture(t, "")
	ctx := context.Background()

	first, err := f.uc.AppendRevision(ctx, f.id, 2, textcanon.TranslationFields{AITranslation: "In the beginning"})
	require.NoError(t, err)
	assert.Equal(t, 1, first.RevisionNumber)
	assert.True(t, first.IsLatest)
	assert.Equal(t, domain.RevisionScopeContent, f.repo.scope)

	second, err := f.uc.AppendRevision(ctx, f.id, 2, textcanon.TranslationFields{AITranslation: "At the start"})
	require.NoError(t, err)
	assert.Equal(t, 2, second.RevisionNumber)

	latest, err := f.uc.LatestFor(ctx, f.id, 2)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)

	history, err := f.uc.History(ctx, f.id, 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.False(t, history[0].IsLatest)
	assert.True(t, history[1].IsLatest)
}

func TestAppendRevisionValidation(t *testing.T) {
	f := newTranslationFixture(t, domain.RevisionScopeContent)
	ctx := context.Background()

	_, err := f.uc.AppendRevision(ctx, f.id, 2, textcanon.TranslationFields{AITranslation: "x", Confidence: ptr(1.5)})
	var verr domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "confidence", verr.Field)

	_, err = f.uc.AppendRevision(ctx, f.id, 77, textcanon.TranslationFields{AITranslation: "x"})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "languageId", verr.Field)

	_, err = f.uc.AppendRevision(ctx, 404, 2, textcanon.TranslationFields{AITranslation: "x"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	assert.Empty(t, f.repo.rows)
}

func TestAppendRevisionLanguageScope(t *testing.T) {
	f := newTranslationFixture(t, domain.RevisionScopeLanguage)
	ctx := context.Background()

	_, err := f.uc.AppendRevision(ctx, f.id, 2, textcanon.TranslationFields{AITranslation: "en"})
	require.NoError(t, err)
	greek, err := f.uc.AppendRevision(ctx, f.id, 1, textcanon.TranslationFields{AITranslation: "grc"})
	require.NoError(t, err)
	assert.Equal(t, 1, greek.RevisionNumber)
	assert.Equal(t, domain.RevisionScopeLanguage, f.repo.scope)
}

func TestPromoteInvalidatesCache(t *testing.T) {
	f := newTranslationFixture(t, domain.RevisionScopeContent)
	ctx := context.Background()

	first, err := f.uc.AppendRevision(ctx, f.id, 2, textcanon.TranslationFields{AITranslation: "a"})
	require.NoError(t, err)
	_, err = f.uc.AppendRevision(ctx, f.id, 2, textcanon.TranslationFields{AITranslation: "b"})
	require.NoError(t, err)

	_, err = f.uc.LatestFor(ctx, f.id, 2)
	require.NoError(t, err)
	_, err = f.uc.LatestFor(ctx, f.id, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, f.repo.latest, "second read is served from cache")

	promoted, err := f.uc.Promote(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, promoted.IsLatest)

	latest, err := f.uc.LatestFor(ctx, f.id, 2)
	require.NoError(t, err)
	assert.Equal(t, first.ID, latest.ID)

	count := 0
	for _, r := range f.repo.rows {
		if r.IsLatest {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestConfirm(t *testing.T) {
	f := newTranslationFixture(t, domain.RevisionScopeContent)
	ctx := context.Background()

	rev, err := f.uc.AppendRevision(ctx, f.id, 2, textcanon.TranslationFields{WordForWord: "in beginning"})
	require.NoError(t, err)

	_, err = f.uc.Confirm(ctx, rev.ID, "  ")
	assert.True(t, errors.Is(err, domain.ErrValidation))

	confirmed, err := f.uc.Confirm(ctx, rev.ID, "editor")
	require.NoError(t, err)
	require.NotNil(t, confirmed.ConfirmedAt)
	assert.Equal(t, "editor", *confirmed.ConfirmedBy)
	assert.Equal(t, 2024, confirmed.ConfirmedAt.Year())

	_, err = f.uc.Confirm(ctx, 999, "editor")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestLatestForMissing(t *testing.T) {
	f := newTranslationFixture(t, domain.RevisionScopeContent)

	_, err := f.uc.LatestFor(context.Background(), f.id, 2)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestLatestForDiscardsReadsOvertakenByAppend(t *testing.T) {
	f := newTranslationFixture(t, domain.RevisionScopeContent)
	ctx := context.Background()

	first, err := f.uc.AppendRevision(ctx, f.id, 2, textcanon.TranslationFields{AITranslation: "a"})
	require.NoError(t, err)

	var second domain.TextTranslation
	f.repo.afterLatest = func() {
		second, err = f.uc.AppendRevision(ctx, f.id, 2, textcanon.TranslationFields{AITranslation: "b"})
		require.NoError(t, err)
	}

	read, err := f.uc.LatestFor(ctx, f.id, 2)
	require.NoError(t, err)
	assert.Equal(t, first.ID, read.ID)

	latest, err := f.uc.LatestFor(ctx, f.id, 2)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
	assert.Equal(t, 2, f.repo.latest)

	cached, err := f.uc.LatestFor(ctx, f.id, 2)
	require.NoError(t, err)
	assert.Equal(t, second.ID, cached.ID)
	assert.Equal(t, 2, f.repo.latest, "fresh value is cached")
}

func TestAppendNotesOnlyRevision(t *testing.T) {
	f := newTranslationFixture(t, domain.RevisionScopeContent)

	rev, err := f.uc.AppendRevision(context.Background(), f.id, 2, textcanon.TranslationFields{Notes: "awaiting human translation"})
	require.NoError(t, err)
	assert.Equal(t, 1, rev.RevisionNumber)
	assert.True(t, rev.IsLatest)
	assert.Empty(t, rev.AITranslation)
}
