package search

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/curatehq/curate/domain/search"
	"github.com/curatehq/curate/internal/database"
	"gorm.io/gorm/clause"
)

// Float64Slice is a custom type for JSON serialization of []float64 in SQLite.
type Float64Slice []float64

// Scan implements sql.Scanner.
func (f *Float64Slice) Scan(value any) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, f)
	case string:
		return json.Unmarshal([]byte(v), f)
	default:
		return fmt.Errorf("cannot scan %T into Float64Slice", value)
	}
}

// Value implements driver.Valuer.
func (f Float64Slice) Value() (driver.Value, error) {
	return json.Marshal(f)
}

// sqliteVectorModel is a row in the SQLite similarity index.
type sqliteVectorModel struct {
	ItemID    string       `gorm:"column:item_id;primaryKey"`
	Embedding Float64Slice `gorm:"column:embedding;type:json"`
	OwnerID   string       `gorm:"column:owner_id"`
	Link      string       `gorm:"column:link"`
	Kind      string       `gorm:"column:kind"`
	Title     string       `gorm:"column:title"`
}

func (sqliteVectorModel) TableName() string {
	return "vectors"
}

// SQLiteVectorIndex implements search.VectorIndex for SQLite. Vectors are
// stored as JSON and similarity search runs in memory, which is fine at
// personal-library scale.
type SQLiteVectorIndex struct {
	db     database.Database
	logger *slog.Logger
}

// NewSQLiteVectorIndex creates the index, eagerly creating its table.
func NewSQLiteVectorIndex(ctx context.Context, db database.Database, logger *slog.Logger) (*SQLiteVectorIndex, error) {
	if logger == nil {
		logger = slog.Default()
	}

	createTableSQL := `
CREATE TABLE IF NOT EXISTS vectors (
    item_id VARCHAR(64) PRIMARY KEY,
    embedding JSON NOT NULL,
    owner_id VARCHAR(64) NOT NULL,
    link VARCHAR(2048) NOT NULL,
    kind VARCHAR(32) NOT NULL,
    title VARCHAR(512) NOT NULL
)`
	if err := db.Session(ctx).Exec(createTableSQL).Error; err != nil {
		return nil, fmt.Errorf("create vectors table: %w", err)
	}

	return &SQLiteVectorIndex{db: db, logger: logger}, nil
}

var _ search.VectorIndex = (*SQLiteVectorIndex)(nil)

// Upsert adds or replaces the entry with the same identifier.
func (s *SQLiteVectorIndex) Upsert(ctx context.Context, entry search.Entry) error {
	meta := entry.Metadata()
	model := sqliteVectorModel{
		ItemID:    entry.ID(),
		Embedding: Float64Slice(entry.Vector()),
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
func (s *SQLiteVectorIndex) Query(ctx context.Context, vector []float64, topK int) ([]search.Match, error) {
	if len(vector) == 0 || topK <= 0 {
		return []search.Match{}, nil
	}

	var entities []sqliteVectorModel
	if err := s.db.Session(ctx).Find(&entities).Error; err != nil {
		return nil, fmt.Errorf("load vectors: %w", err)
	}

	vectors := make([]StoredVector, 0, len(entities))
	for _, e := range entities {
		if len(e.Embedding) == 0 {
			s.logger.Warn("skipping empty embedding", "item_id", e.ItemID)
			continue
		}
		vectors = append(vectors, NewStoredVector(e.ItemID, e.Embedding))
	}

	return TopKSimilar(vector, vectors, topK), nil
}

// Delete removes an entry. Deleting a nonexistent identifier is a no-op.
func (s *SQLiteVectorIndex) Delete(ctx context.Context, id string) error {
	err := s.db.Session(ctx).Delete(&sqliteVectorModel{}, "item_id = ?", id).Error
	if err != nil {
		return fmt.Errorf("delete vector: %w", err)
	}
	return nil
}
