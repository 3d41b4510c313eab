package usecase

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/totegamma/textcanon/internal/domain"
)

func TestCanonSetAndList(t *testing.T) {
	refs := newMockRefRepo()
	contents := newMockContentRepo()
	canons := &mockCanonRepo{refs: refs, members: map[int64][]int64{}}
	events := &mockPublisher{}
	uc := NewCanonUsecase(contents, canons, events, nil)
	ctx := context.Background()

	created, err := contents.Create(ctx, domain.TextContent{SourceID: 1, BookID: 1}, nil)
	require.NoError(t, err)

	refsOut, err := uc.SetCanons(ctx, created.ID, []int64{1, 2, 1})
	require.NoError(t, err)
	require.Len(t, refsOut, 2)
	assert.Equal(t, "catholic", refsOut[0].Code, "ordered by display order")

	names, err := uc.ListCanonNamesFor(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Catholic", "Protestant"}, names)

	cleared, err := uc.SetCanons(ctx, created.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, cleared)
	assert.Len(t, events.events, 2)

	_, err = uc.ListCanonsFor(ctx, 404)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
