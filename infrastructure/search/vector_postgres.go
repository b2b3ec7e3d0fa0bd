package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/curatehq/curate/domain/search"
	"github.com/curatehq/curate/internal/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SQL specific to pgvector (extension, index, catalog probe).
const (
	pgvCreateExtension = `CREATE EXTENSION IF NOT EXISTS vector`

	pgvCreateIndex = `
CREATE INDEX IF NOT EXISTS vectors_embedding_idx
ON vectors
USING ivfflat (embedding vector_cosine_ops)
WITH (lists = 100)`

	pgvCheckDimension = `
SELECT a.atttypmod as dimension
FROM pg_attribute a
JOIN pg_class c ON a.attrelid = c.oid
WHERE c.relname = 'vectors'
AND a.attname = 'embedding'`
)

// Pgvector initialization errors.
var (
	ErrPgvectorInitializationFailed = errors.New("failed to initialize pgvector index")
	ErrDimensionMismatch            = errors.New("embedding dimension mismatch")
)

// pgVectorModel is a row in the pgvector similarity index.
type pgVectorModel struct {
	ItemID    string            `gorm:"column:item_id;primaryKey"`
	Embedding database.PgVector `gorm:"column:embedding"`
	OwnerID   string            `gorm:"column:owner_id"`
	Link      string            `gorm:"column:link"`
	Kind      string            `gorm:"column:kind"`
	Title     string            `gorm:"column:title"`
}

func (pgVectorModel) TableName() string {
	return "vectors"
}

// PgvectorIndex implements search.VectorIndex using the PostgreSQL pgvector
// extension, with similarity computed database-side.
type PgvectorIndex struct {
	db     database.Database
	logger *slog.Logger
}

// NewPgvectorIndex creates the index, eagerly initializing the extension,
// table, and ivfflat index, and verifying the stored vector dimension.
func NewPgvectorIndex(ctx context.Context, db database.Database, dimension int, logger *slog.Logger) (*PgvectorIndex, error) {
	if logger == nil {
		logger = slog.Default()
	}

	rawDB := db.Session(ctx)

	if err := rawDB.Exec(pgvCreateExtension).Error; err != nil {
		return nil, errors.Join(ErrPgvectorInitializationFailed, fmt.Errorf("create extension: %w", err))
	}

	// Dynamic dimension requires raw SQL; AutoMigrate cannot size VECTOR columns.
	createTableSQL := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS vectors (
    item_id VARCHAR(64) PRIMARY KEY,
    embedding VECTOR(%d) NOT NULL,
    owner_id VARCHAR(64) NOT NULL,
    link VARCHAR(2048) NOT NULL,
    kind VARCHAR(32) NOT NULL,
    title VARCHAR(512) NOT NULL
)`, dimension)
	if err := rawDB.Exec(createTableSQL).Error; err != nil {
		return nil, errors.Join(ErrPgvectorInitializationFailed, fmt.Errorf("create table: %w", err))
	}

	if err := rawDB.Exec(pgvCreateIndex).Error; err != nil {
		logger.Warn("failed to create ivfflat index (may already exist)", "error", err)
	}

	var dbDimension int
	result := rawDB.Raw(pgvCheckDimension).Scan(&dbDimension)
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, errors.Join(ErrPgvectorInitializationFailed, fmt.Errorf("check dimension: %w", result.Error))
	}
	if result.RowsAffected > 0 && dbDimension != dimension {
		return nil, fmt.Errorf("%w: database has %d, provider has %d", ErrDimensionMismatch, dbDimension, dimension)
	}

	return &PgvectorIndex{db: db, logger: logger}, nil
}

var _ search.VectorIndex = (*PgvectorIndex)(nil)

// Upsert adds or replaces the entry with the same identifier.
func (s *PgvectorIndex) Upsert(ctx context.Context, entry search.Entry) error {
	meta := entry.Metadata()
	model := pgVectorModel{
		ItemID:    entry.ID(),
		Embedding: database.NewPgVector(entry.Vector()),
		OwnerID:   meta.OwnerID(),
		Link:      meta.Link(),
		Kind:      meta.Kind(),
		Title:     meta.Title(),
	}

	err := s.db.Session(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "item_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"embedding", "owner_id", "link", "kind", "title"}),
	}).Create(&model).Error
	if err != nil {
		return fmt.Errorf("upsert vector: %w", err)
	}
	return nil
}

// Query returns up to topK matches ordered by similarity descending.
// pgvector's <=> operator returns cosine distance; similarity is 1 - distance.
func (s *PgvectorIndex) Query(ctx context.Context, vector []float64, topK int) ([]search.Match, error) {
	if len(vector) == 0 || topK <= 0 {
		return []search.Match{}, nil
	}

	var rows []struct {
		ItemID     string  `gorm:"column:item_id"`
		Similarity float64 `gorm:"column:similarity"`
	}
	query := database.NewPgVector(vector).String()
	err := s.db.Session(ctx).Raw(`
SELECT item_id, 1 - (embedding <=> ?::vector) AS similarity
FROM vectors
ORDER BY embedding <=> ?::vector
LIMIT ?`, query, query, topK).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query vectors: %w", err)
	}

	matches := make([]search.Match, len(rows))
	for i, row := range rows {
		matches[i] = search.NewMatch(row.ItemID, row.Similarity)
	}
	return matches, nil
}

// Delete removes an entry. Deleting a nonexistent identifier is a no-op.
func (s *PgvectorIndex) Delete(ctx context.Context, id string) error {
	err := s.db.Session(ctx).Delete(&pgVectorModel{}, "item_id = ?", id).Error
	if err != nil {
		return fmt.Errorf("delete vector: %w", err)
	}
	return nil
}
