// Package mcp provides an MCP (Model Context Protocol) server adapter for interlink.
// It lets AI assistants link page content and inspect link targets.
package mcp

import "errors"

// ErrMissingLinkService is returned when the link service is not provided.
var ErrMissingLinkService = errors.New("mcp: link service is required")
