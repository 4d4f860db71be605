// Package sqlite provides a SQLite-backed catalog of entities and synonyms.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. One database connection serves:
//
//   - EntityStore: Category and subcategory records
//   - VocabularyStore: Synonym lists per entity
//   - CatalogWriter: Bulk replacement used by `interlink data import`
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.interlink/data/catalog.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
