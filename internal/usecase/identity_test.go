package usecase

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/totegamma/textcanon/internal/domain"
)

func TestReserveKey(t *testing.T) {
	refs := newMockRefRepo()
	contents := newMockContentRepo()
	resolver := NewIdentityResolver(refs, contents)
	ctx := context.Background()

	key, err := resolver.ReserveKey(ctx, 1, 1, "1", "1", 0)
	require.NoError(t, err)
	assert.Equal(t, "KJV|GEN|1|1", key)

	held, err := contents.Create(ctx, domain.TextContent{SourceID: 1, BookID: 1, UnitKey: ptr(key)}, nil)
	require.NoError(t, err)

	_, err = resolver.ReserveKey(ctx, 1, 1, "1", "1", 0)
	assert.True(t, errors.Is(err, domain.ErrKeyConflict))

	key, err = resolver.ReserveKey(ctx, 1, 1, "1", "1", held.ID)
	require.NoError(t, err)
	assert.Equal(t, "KJV|GEN|1|1", key)

	key, err = resolver.ReserveKey(ctx, 1, 1, "", "1", 0)
	require.NoError(t, err)
	assert.Empty(t, key)

	_, err = resolver.ReserveKey(ctx, 1, 99, "1", "1", 0)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	derived, err := resolver.DeriveKey(ctx, 2, 2, "3", "16")
	require.NoError(t, err)
	assert.Equal(t, "SBLGNT|EXO|3|16", derived)
}
