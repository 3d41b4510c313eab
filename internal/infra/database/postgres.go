package database

import (
	"log"
	"os"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/totegamma/textcanon/internal/domain"
	"github.com/totegamma/textcanon/internal/infra/database/models"
)

func newGormConfig() *gorm.Config {
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags), // io writer
		logger.Config{
			SlowThreshold:             300 * time.Millisecond, // Slow SQL threshold
			LogLevel:                  logger.Warn,            // Log level
			IgnoreRecordNotFoundError: true,                   // Ignore ErrRecordNotFound error for logger
			Colorful:                  false,
		},
	)

	// TranslateError maps driver unique/foreign key violations to
	// gorm.ErrDuplicatedKey and gorm.ErrForeignKeyViolated.
	return &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger,
	}
}

func NewPostgres(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), newGormConfig())
}

// Migrate creates the schema. The revision uniqueness index follows scope;
// switching scope drops the index of the other scope.
func Migrate(db *gorm.DB, scope domain.RevisionScope) error {
	err := db.AutoMigrate(
		&models.Language{},
		&models.UnitType{},
		&models.Source{},
		&models.Book{},
		&models.Canon{},
		&models.TextContent{},
		&models.CanonTextContent{},
		&models.TextTranslation{},
		&models.TextUnit{},
		&models.CanonMap{},
		&models.TextPayload{},
	)
	if err != nil {
		return errors.Wrap(err, "database.Migrate: auto migrate")
	}

	keep, drop := revisionIndexContent, revisionIndexLanguage
	columns := "text_content_id, revision_number"
	if scope == domain.RevisionScopeLanguage {
		keep, drop = revisionIndexLanguage, revisionIndexContent
		columns = "text_content_id, language_target_id, revision_number"
	}

	if db.Migrator().HasIndex(&models.TextTranslation{}, drop) {
		if err := db.Migrator().DropIndex(&models.TextTranslation{}, drop); err != nil {
			return errors.Wrap(err, "database.Migrate: drop "+drop)
		}
	}

	stmts := []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS " + keep + " ON text_translations (" + columns + ")",
		"CREATE UNIQUE INDEX IF NOT EXISTS " + latestIndex + " ON text_translations (text_content_id, language_target_id) WHERE is_latest",
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return errors.Wrap(err, "database.Migrate: "+stmt)
		}
	}
	return nil
}

const (
	revisionIndexContent  = "idx_text_translations_revision"
	revisionIndexLanguage = "idx_text_translations_language_revision"
	latestIndex           = "idx_text_translations_latest"
)
