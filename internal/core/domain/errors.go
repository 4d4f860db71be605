package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown store, relation or anchor source.
	ErrUnsupportedType = errors.New("unsupported type")

	// Linking Errors.

	// ErrInvalidPolicy indicates a link policy that cannot be applied.
	// It is raised before any content is processed.
	ErrInvalidPolicy = errors.New("invalid link policy")

	// ErrInvalidEntity indicates an entity record violates the hierarchy shape.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrCatalogUnavailable indicates the entity catalog has not been loaded.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)
