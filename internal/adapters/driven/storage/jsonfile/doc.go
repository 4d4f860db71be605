// Package jsonfile reads the catalog from JSON data files.
//
// A data directory holds three files:
//
//   - categories.json: array of {id, slug, title, relatedIds}
//   - subcategories.json: the same fields plus parentId
//   - anchors.json: object mapping entity ID to a synonym list
//
// Only categories.json is required. A record without a slug gets one
// generated from its title.
package jsonfile
