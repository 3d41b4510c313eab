package repository

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/totegamma/textcanon/internal/domain"
)

func TestReferenceUpsertByCode(t *testing.T) {
	f := newFixture(t, domain.RevisionScopeContent)
	ctx := context.Background()

	again, err := f.refs.SaveBook(ctx, domain.Book{Code: "GEN", Name: "Bereshit"})
	require.NoError(t, err)
	assert.Equal(t, f.genesis.ID, again.ID)

	book, err := f.refs.GetBook(ctx, f.genesis.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bereshit", book.Name)

	byCode, err := f.refs.FindSourceByCode(ctx, "SBLGNT")
	require.NoError(t, err)
	require.NotNil(t, byCode.LanguageID)
	assert.Equal(t, f.greek.ID, *byCode.LanguageID)

	_, err = f.refs.GetLanguage(ctx, 999)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	_, err = f.refs.FindBookByCode(ctx, "NOPE")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestListCanonsByDisplayOrder(t *testing.T) {
	f := newFixture(t, domain.RevisionScopeContent)

	canons, err := f.refs.ListCanons(context.Background())
	require.NoError(t, err)
	require.Len(t, canons, 3)
	assert.Equal(t, []string{"orthodox", "catholic", "protestant"}, []string{canons[0].Code, canons[1].Code, canons[2].Code})

	some, err := f.refs.GetCanons(context.Background(), []int64{f.canons[0].ID, 999})
	require.NoError(t, err)
	require.Len(t, some, 1)
	assert.Equal(t, "protestant", some[0].Code)
}
