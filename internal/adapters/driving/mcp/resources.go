package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/interlink/internal/core/domain"
	"github.com/custodia-labs/interlink/internal/core/services"
)

const (
	// uriScheme is the custom URI scheme for interlink resources.
	uriScheme = "interlink://"
)

// entityInfo is the JSON shape of an entity resource.
type entityInfo struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Kind       string   `json:"kind"`
	ParentID   string   `json:"parent_id,omitempty"`
	Path       string   `json:"path"`
	Children   []string `json:"children,omitempty"`
	RelatedIDs []string `json:"related_ids,omitempty"`
	Synonyms   []string `json:"synonyms,omitempty"`
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "entities",
		Name:        "entities",
		Description: "All categories and subcategories in the catalog",
		MIMEType:    "application/json",
	}, s.handleEntitiesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "entities/{entityId}",
		Name:        "entity",
		Description: "One entity with its hierarchy and synonyms",
		MIMEType:    "application/json",
	}, s.handleEntityResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "settings",
		Name:        "settings",
		Description: "The link policy in effect",
		MIMEType:    "application/json",
	}, s.handleSettingsResource)
}

// handleEntitiesResource returns every entity in catalog order.
func (s *Server) handleEntitiesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Catalog == nil {
		return jsonResult(req.Params.URI, []entityInfo{})
	}

	catalog, err := s.ports.Catalog.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	entities := catalog.Hierarchy.All()
	infos := make([]entityInfo, len(entities))
	for i, e := range entities {
		infos[i] = describeEntity(catalog, e)
	}

	return jsonResult(req.Params.URI, infos)
}

// handleEntityResource returns a single entity.
func (s *Server) handleEntityResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Catalog == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// interlink://entities/{entityId}
	entityID := extractEntityID(req.Params.URI)
	if entityID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	catalog, err := s.ports.Catalog.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	e, ok := catalog.Hierarchy.Entity(entityID)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return jsonResult(req.Params.URI, describeEntity(catalog, e))
}

// handleSettingsResource returns every setting key with its effective value.
func (s *Server) handleSettingsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	policy, err := s.ports.policy()
	if err != nil {
		return nil, fmt.Errorf("loading link policy: %w", err)
	}

	values := make(map[string]string)
	for _, key := range services.SettingKeys() {
		values[key] = services.SettingValue(&policy, key)
	}

	return jsonResult(req.Params.URI, values)
}

func describeEntity(catalog *domain.Catalog, e domain.Entity) entityInfo {
	segments, _ := catalog.Hierarchy.Path(e.ID)
	return entityInfo{
		ID:         e.ID,
		Title:      e.Title,
		Kind:       e.Kind.String(),
		ParentID:   e.ParentID,
		Path:       domain.NormaliseURL("", segments, false),
		Children:   catalog.Hierarchy.Children(e.ID),
		RelatedIDs: e.RelatedIDs,
		Synonyms:   catalog.Vocabulary.Synonyms(e.ID),
	}
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractEntityID extracts the entity ID from a URI like interlink://entities/{entityId}.
func extractEntityID(uri string) string {
	const prefix = uriScheme + "entities/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
