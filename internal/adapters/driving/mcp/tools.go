package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/interlink/internal/core/domain"
)

// LinkContentInput is the input schema for the link_content tool.
type LinkContentInput struct {
	EntityID string `json:"entity_id" jsonschema:"the entity the page renders"`
	HTML     string `json:"html" jsonschema:"the page content to link"`
	MaxLinks int    `json:"max_links,omitempty" jsonschema:"overrides the configured per-page link cap when positive"`
}

// LinkContentOutput is the output schema for the link_content tool.
type LinkContentOutput struct {
	HTML          string   `json:"html"`
	LinksInserted int      `json:"links_inserted"`
	TargetURLs    []string `json:"target_urls"`
	Budget        int      `json:"budget"`
	WordCount     int      `json:"word_count"`
}

// ResolveTargetsInput is the input schema for the resolve_targets tool.
type ResolveTargetsInput struct {
	EntityID string `json:"entity_id" jsonschema:"the entity the page renders"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum number of targets to return (default all)"`
}

// ResolveTargetsOutput is the output schema for the resolve_targets tool.
type ResolveTargetsOutput struct {
	Targets []TargetOutput `json:"targets"`
	Count   int            `json:"count"`
}

// TargetOutput represents a single link target.
type TargetOutput struct {
	ID       string   `json:"id"`
	URL      string   `json:"url"`
	Relation string   `json:"relation"`
	Priority int      `json:"priority"`
	Anchors  []string `json:"anchors"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "link_content",
		Description: "Insert internal links into the HTML of a category page",
	}, s.handleLinkContent)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "resolve_targets",
		Description: "List the pages a category page may link to, highest priority first",
	}, s.handleResolveTargets)
}

// handleLinkContent handles the link_content tool invocation.
func (s *Server) handleLinkContent(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input LinkContentInput,
) (*mcp.CallToolResult, LinkContentOutput, error) {
	entityID := strings.TrimSpace(input.EntityID)
	if entityID == "" {
		return nil, LinkContentOutput{}, fmt.Errorf("%w: entity_id is required", domain.ErrInvalidInput)
	}

	policy, err := s.ports.policy()
	if err != nil {
		return nil, LinkContentOutput{}, fmt.Errorf("loading link policy: %w", err)
	}
	if input.MaxLinks > 0 {
		policy.MaxLinksPerPage = input.MaxLinks
	}

	result, err := s.ports.Link.Link(ctx, input.HTML, domain.PageContext{EntityID: entityID}, policy)
	if err != nil {
		return nil, LinkContentOutput{}, err
	}

	return nil, LinkContentOutput{
		HTML:          result.HTML,
		LinksInserted: result.LinksInserted,
		TargetURLs:    result.TargetURLs,
		Budget:        result.Budget,
		WordCount:     result.WordCount,
	}, nil
}

// handleResolveTargets handles the resolve_targets tool invocation.
func (s *Server) handleResolveTargets(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ResolveTargetsInput,
) (*mcp.CallToolResult, ResolveTargetsOutput, error) {
	entityID := strings.TrimSpace(input.EntityID)
	if entityID == "" {
		return nil, ResolveTargetsOutput{}, fmt.Errorf("%w: entity_id is required", domain.ErrInvalidInput)
	}

	policy, err := s.ports.policy()
	if err != nil {
		return nil, ResolveTargetsOutput{}, fmt.Errorf("loading link policy: %w", err)
	}

	targets, err := s.ports.Link.Targets(ctx, domain.PageContext{EntityID: entityID}, policy)
	if err != nil {
		return nil, ResolveTargetsOutput{}, err
	}
	if input.Limit > 0 && len(targets) > input.Limit {
		targets = targets[:input.Limit]
	}

	output := ResolveTargetsOutput{
		Targets: make([]TargetOutput, len(targets)),
		Count:   len(targets),
	}
	for i, t := range targets {
		output.Targets[i] = TargetOutput{
			ID:       t.ID,
			URL:      t.URL,
			Relation: t.Relation.String(),
			Priority: t.Priority,
			Anchors:  t.Anchors,
		}
	}

	return nil, output, nil
}
