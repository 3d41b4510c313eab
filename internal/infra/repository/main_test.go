package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/totegamma/textcanon/internal/domain"
	"github.com/totegamma/textcanon/internal/infra/database"
)

type fixture struct {
	db      *gorm.DB
	refs    *ReferenceRepository
	greek   domain.Language
	english domain.Language
	verse   domain.UnitType
	kjv     domain.Source
	sbl     domain.Source
	genesis domain.Book
	exodus  domain.Book
	canons  []domain.Canon
}

func setupDB(t *testing.T, scope domain.RevisionScope) *gorm.DB {
	t.Helper()
	db, err := database.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, scope))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func newFixture(t *testing.T, scope domain.RevisionScope) fixture {
	t.Helper()
	ctx := context.Background()
	db := setupDB(t, scope)
	refs := NewReferenceRepository(db)

	f := fixture{db: db, refs: refs}
	var err error
	f.greek, err = refs.SaveLanguage(ctx, domain.Language{Code: "grc", Name: "Ancient Greek", Script: "Grek"})
	require.NoError(t, err)
	f.english, err = refs.SaveLanguage(ctx, domain.Language{Code: "en", Name: "English", Script: "Latn"})
	require.NoError(t, err)
	f.verse, err = refs.SaveUnitType(ctx, domain.UnitType{Code: "verse", Name: "Verse"})
	require.NoError(t, err)
	f.kjv, err = refs.SaveSource(ctx, domain.Source{Code: "KJV", Name: "King James", LanguageID: &f.english.ID})
	require.NoError(t, err)
	f.sbl, err = refs.SaveSource(ctx, domain.Source{Code: "SBLGNT", Name: "SBL Greek New Testament", LanguageID: &f.greek.ID})
	require.NoError(t, err)
	f.genesis, err = refs.SaveBook(ctx, domain.Book{Code: "GEN", Name: "Genesis"})
	require.NoError(t, err)
	f.exodus, err = refs.SaveBook(ctx, domain.Book{Code: "EXO", Name: "Exodus"})
	require.NoError(t, err)
	for i, code := range []string{"protestant", "catholic", "orthodox"} {
		c, err := refs.SaveCanon(ctx, domain.Canon{Code: code, Name: code, DisplayOrder: 3 - i})
		require.NoError(t, err)
		f.canons = append(f.canons, c)
	}
	return f
}

func (f fixture) content(source domain.Source, book domain.Book, group, unit string) domain.TextContent {
	c := domain.TextContent{
		SourceID:   source.ID,
		BookID:     book.ID,
		UnitTypeID: f.verse.ID,
		LanguageID: f.english.ID,
		UnitGroup:  group,
		Unit:       unit,
		Content:    "text " + group + ":" + unit,
	}
	if group != "" && unit != "" {
		key := source.Code + "|" + book.Code + "|" + group + "|" + unit
		c.UnitKey = &key
	}
	return c
}
