package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for docchat resources.
	uriScheme = "docchat://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing scraped pages.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "pages",
		Name:        "pages",
		Description: "List of all scraped documentation pages",
		MIMEType:    "application/json",
	}, s.handlePagesResource)

	// Template for page content.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "pages/{source}",
		Name:        "page-content",
		Description: "Full text of a scraped documentation page",
		MIMEType:    "text/plain",
	}, s.handlePageContentResource)
}

// handlePagesResource returns the list of known page sources.
func (s *Server) handlePagesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	sources := []string{}
	if s.ports.Docs != nil {
		var err error
		sources, err = s.ports.Docs.ListSources(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing pages: %w", err)
		}
	}

	data, err := json.Marshal(sources)
	if err != nil {
		return nil, fmt.Errorf("marshalling pages: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handlePageContentResource returns the stored text of one page. The
// source URL is everything after the pages/ prefix.
func (s *Server) handlePageContentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Docs == nil {
		return nil, fmt.Errorf("page store not configured")
	}

	source := strings.TrimPrefix(req.Params.URI, uriScheme+"pages/")
	doc, err := s.ports.Docs.GetDocument(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("reading page %q: %w", source, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     doc.Content,
		}},
	}, nil
}
