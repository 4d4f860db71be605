// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - EntityStore: Category and subcategory records
//   - VocabularyStore: Synonym lists per entity
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
//   - PageStore: Page content for batch builds. Only the build command needs it.
//   - CatalogWriter: Bulk replacement of a store's catalog. Used by data import.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
