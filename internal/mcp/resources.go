package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/fergun/internal/mcp/tools"
)

const mimeJSON = "application/json"

// Resource URI scheme: wolfram://
// Supported URIs:
//   wolfram://result/{language}/{input}
//
// input is path-escaped, e.g. wolfram://result/en/population%20of%20Chicago

// registerResources registers resource templates and handlers.
func (s *Server) registerResources() {
	s.mcpServer.AddResourceTemplate(&sdkmcp.ResourceTemplate{
		URITemplate: "wolfram://result/{language}/{input}",
		Name:        "Wolfram|Alpha Result",
		Description: "Complete query result including inline base64 images. High context cost - wolfram_query already returns pods without image bytes. Only fetch when you need the raw images.",
		MIMEType:    mimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.3,
		},
	}, s.handleResourceResult)
}

func (s *Server) handleResourceResult(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	language, input, err := parseResultURI(req.Params.URI)
	if err != nil {
		return nil, err
	}

	queryCtx, cancel := context.WithTimeout(ctx, s.deps.Config.QueryTimeout)
	defer cancel()

	result, err := s.deps.Wolfram.Query(queryCtx, input, language)
	if err != nil {
		return nil, tools.WrapWolframError(err)
	}

	return toResourceResult(req.Params.URI, result)
}

// parseResultURI extracts the language and the unescaped input from a
// wolfram://result URI.
func parseResultURI(uri string) (language, input string, err error) {
	rest, ok := strings.CutPrefix(uri, "wolfram://result/")
	if !ok {
		return "", "", tools.ErrInvalidInput(fmt.Sprintf("unsupported resource URI: %s", uri))
	}

	language, escaped, ok := strings.Cut(rest, "/")
	if !ok || language == "" || escaped == "" {
		return "", "", tools.ErrInvalidInput("result URI requires language and input")
	}

	input, err = url.PathUnescape(escaped)
	if err != nil {
		return "", "", tools.ErrInvalidInput(fmt.Sprintf("invalid input escaping: %v", err))
	}
	return language, input, nil
}

// toResourceResult serializes content to a ReadResourceResult.
func toResourceResult(uri string, content any) (*sdkmcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing resource: %w", err)
	}

	return &sdkmcp.ReadResourceResult{
		Contents: []*sdkmcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: mimeJSON,
				Text:     string(data),
			},
		},
	}, nil
}
