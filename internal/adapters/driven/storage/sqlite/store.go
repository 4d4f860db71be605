package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/interlink/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/interlink/internal/core/domain"
	"github.com/custodia-labs/interlink/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.CatalogWriter = (*Store)(nil)

// Store is a SQLite-based catalog store that provides the entity and
// vocabulary interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens or creates the database at dbPath.
// If dbPath is empty, defaults to ~/.interlink/data/catalog.db.
func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".interlink", "data", "catalog.db")
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// EntityStore returns an EntityStore interface backed by this store.
func (s *Store) EntityStore() driven.EntityStore {
	return &entityStore{store: s}
}

// VocabularyStore returns a VocabularyStore interface backed by this store.
func (s *Store) VocabularyStore() driven.VocabularyStore {
	return &vocabularyStore{store: s}
}

// migrate runs all pending up migrations in version order and records each one.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_catalog.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Replace discards the stored catalog and writes the given one in a
// single transaction.
func (s *Store) Replace(ctx context.Context, entities []domain.Entity, vocab domain.Vocabulary) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{"synonyms", "entity_relations", "entities"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	seen := make(map[string]bool, len(entities))
	for i, e := range entities {
		if seen[e.ID] {
			err = fmt.Errorf("%w: entity %s", domain.ErrAlreadyExists, e.ID)
			return err
		}
		seen[e.ID] = true

		_, err = tx.ExecContext(ctx, `
			INSERT INTO entities (id, position, slug, title, kind, parent_id)
			VALUES (?, ?, ?, ?, ?, ?)
		`, e.ID, i, e.Slug, e.Title, e.Kind.String(), nullString(e.ParentID))
		if err != nil {
			return fmt.Errorf("saving entity %s: %w", e.ID, err)
		}
		for j, related := range e.RelatedIDs {
			_, err = tx.ExecContext(ctx, `
				INSERT OR IGNORE INTO entity_relations (entity_id, related_id, position)
				VALUES (?, ?, ?)
			`, e.ID, related, j)
			if err != nil {
				return fmt.Errorf("saving relations of %s: %w", e.ID, err)
			}
		}
	}

	for entityID, list := range vocab {
		for j, synonym := range list {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO synonyms (entity_id, position, synonym) VALUES (?, ?, ?)
			`, entityID, j, synonym)
			if err != nil {
				return fmt.Errorf("saving synonyms of %s: %w", entityID, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing catalog: %w", err)
	}
	return nil
}

// ==================== Entity Store ====================

// entityStore implements driven.EntityStore.
type entityStore struct {
	store *Store
}

var _ driven.EntityStore = (*entityStore)(nil)

// List returns all entities in import order.
func (s *entityStore) List(ctx context.Context) ([]domain.Entity, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, slug, title, kind, parent_id FROM entities ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying entities: %w", err)
	}
	defer rows.Close()

	var entities []domain.Entity
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, err
		}
		entities = append(entities, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entities: %w", err)
	}

	related, err := s.relations(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range entities {
		entities[i].RelatedIDs = related[entities[i].ID]
	}

	return entities, nil
}

// Get retrieves an entity by ID.
func (s *entityStore) Get(ctx context.Context, id string) (*domain.Entity, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, slug, title, kind, parent_id FROM entities WHERE id = ?
	`, id)

	e, err := scanEntity(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	related, err := s.relations(ctx, id)
	if err != nil {
		return nil, err
	}
	e.RelatedIDs = related[id]

	return &e, nil
}

// relations loads related IDs for one entity, or for all when id is empty.
func (s *entityStore) relations(ctx context.Context, id string) (map[string][]string, error) {
	query := `SELECT entity_id, related_id FROM entity_relations`
	var args []any
	if id != "" {
		query += ` WHERE entity_id = ?`
		args = append(args, id)
	}
	query += ` ORDER BY entity_id, position`

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying relations: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]string)
	for rows.Next() {
		var entityID, relatedID string
		if err := rows.Scan(&entityID, &relatedID); err != nil {
			return nil, fmt.Errorf("scanning relation: %w", err)
		}
		result[entityID] = append(result[entityID], relatedID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating relations: %w", err)
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntity(row scanner) (domain.Entity, error) {
	var e domain.Entity
	var kind string
	var parentID sql.NullString
	if err := row.Scan(&e.ID, &e.Slug, &e.Title, &kind, &parentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return e, err
		}
		return e, fmt.Errorf("scanning entity: %w", err)
	}
	e.Kind = domain.EntityKind(kind)
	e.ParentID = parentID.String
	return e, nil
}

// ==================== Vocabulary Store ====================

// vocabularyStore implements driven.VocabularyStore.
type vocabularyStore struct {
	store *Store
}

var _ driven.VocabularyStore = (*vocabularyStore)(nil)

// Synonyms returns the ordered synonyms of an entity.
func (s *vocabularyStore) Synonyms(ctx context.Context, entityID string) ([]string, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT synonym FROM synonyms WHERE entity_id = ? ORDER BY position
	`, entityID)
	if err != nil {
		return nil, fmt.Errorf("querying synonyms: %w", err)
	}
	defer rows.Close()

	result := []string{}
	for rows.Next() {
		var synonym string
		if err := rows.Scan(&synonym); err != nil {
			return nil, fmt.Errorf("scanning synonym: %w", err)
		}
		result = append(result, synonym)
	}
	return result, rows.Err()
}

// All returns every synonym list keyed by entity ID.
func (s *vocabularyStore) All(ctx context.Context) (domain.Vocabulary, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT entity_id, synonym FROM synonyms ORDER BY entity_id, position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying synonyms: %w", err)
	}
	defer rows.Close()

	result := make(domain.Vocabulary)
	for rows.Next() {
		var entityID, synonym string
		if err := rows.Scan(&entityID, &synonym); err != nil {
			return nil, fmt.Errorf("scanning synonym: %w", err)
		}
		result[entityID] = append(result[entityID], synonym)
	}
	return result, rows.Err()
}

// nullString converts an empty string to SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
