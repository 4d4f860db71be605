// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// LinkService is the linking engine itself. It performs no I/O and keeps
// no state between calls beyond a cache of compiled anchor matchers.
// CatalogService, SettingsService and BuildService wire the engine to
// stores, configuration and page files.
package services
