package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dafibh/finanzas/finanzas-backend/docs"
	"github.com/labstack/echo/v4"
	"github.com/swaggo/swag"
)

// swagger2 is the subset of the swag document /openapi.json is built from
type swagger2 struct {
	Info        map[string]any                  `json:"info"`
	BasePath    string                          `json:"basePath"`
	Paths       map[string]map[string]swaggerOp `json:"paths"`
	Definitions map[string]any                  `json:"definitions"`
}

type swaggerOp struct {
	Summary     string                     `json:"summary,omitempty"`
	Description string                     `json:"description,omitempty"`
	Tags        []string                   `json:"tags,omitempty"`
	Produces    []string                   `json:"produces,omitempty"`
	Parameters  []map[string]any           `json:"parameters,omitempty"`
	Responses   map[string]swaggerResponse `json:"responses"`
}

type swaggerResponse struct {
	Description string `json:"description"`
	Schema      any    `json:"schema,omitempty"`
}

// openAPIDoc is the OpenAPI 3 rendering served at /openapi.json
type openAPIDoc struct {
	OpenAPI    string                               `json:"openapi"`
	Info       map[string]any                       `json:"info"`
	Servers    []map[string]string                  `json:"servers"`
	Paths      map[string]map[string]map[string]any `json:"paths"`
	Components map[string]any                       `json:"components"`
}

// schemaRef rewrites swagger 2 definition references to component schemas
func schemaRef(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if s, ok := val.(string); ok && k == "$ref" {
				out[k] = strings.Replace(s, "#/definitions/", "#/components/schemas/", 1)
				continue
			}
			out[k] = schemaRef(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = schemaRef(val)
		}
		return out
	}
	return v
}

func mediaTypes(produces []string) []string {
	if len(produces) == 0 {
		return []string{echo.MIMEApplicationJSON}
	}
	return produces
}

// convertOperation moves body parameters into requestBody, wraps scalar
// parameter types in schemas and response schemas in content entries
func convertOperation(op swaggerOp) map[string]any {
	out := map[string]any{"responses": map[string]any{}}
	if op.Summary != "" {
		out["summary"] = op.Summary
	}
	if op.Description != "" {
		out["description"] = op.Description
	}
	if len(op.Tags) > 0 {
		out["tags"] = op.Tags
	}

	var params []map[string]any
	for _, p := range op.Parameters {
		if p["in"] == "body" {
			out["requestBody"] = map[string]any{
				"required": p["required"] == true,
				"content": map[string]any{
					echo.MIMEApplicationJSON: map[string]any{"schema": schemaRef(p["schema"])},
				},
			}
			continue
		}
		param := map[string]any{"name": p["name"], "in": p["in"], "required": p["required"] == true}
		if d, ok := p["description"]; ok {
			param["description"] = d
		}
		schema := map[string]any{}
		for _, k := range []string{"type", "format", "enum", "default"} {
			if v, ok := p[k]; ok {
				schema[k] = v
			}
		}
		param["schema"] = schema
		params = append(params, param)
	}
	if len(params) > 0 {
		out["parameters"] = params
	}

	responses := out["responses"].(map[string]any)
	for code, r := range op.Responses {
		resp := map[string]any{"description": r.Description}
		if r.Schema != nil {
			content := map[string]any{}
			for _, mt := range mediaTypes(op.Produces) {
				content[mt] = map[string]any{"schema": schemaRef(r.Schema)}
			}
			resp["content"] = content
		}
		responses[code] = resp
	}
	return out
}

func buildOpenAPI(raw string) (*openAPIDoc, error) {
	var src swagger2
	if err := json.Unmarshal([]byte(raw), &src); err != nil {
		return nil, err
	}

	doc := &openAPIDoc{
		OpenAPI:    "3.0.3",
		Info:       src.Info,
		Servers:    []map[string]string{{"url": src.BasePath, "description": "This server"}},
		Paths:      make(map[string]map[string]map[string]any, len(src.Paths)),
		Components: map[string]any{"schemas": schemaRef(src.Definitions)},
	}
	for path, ops := range src.Paths {
		converted := make(map[string]map[string]any, len(ops))
		for method, op := range ops {
			converted[method] = convertOperation(op)
		}
		doc.Paths[path] = converted
	}
	return doc, nil
}

// ServeOpenAPI3Spec serves the swag document converted to OpenAPI 3
func ServeOpenAPI3Spec(c echo.Context) error {
	raw, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	if err != nil {
		return NewInternalError(c, "Failed to read API documentation")
	}
	doc, err := buildOpenAPI(raw)
	if err != nil {
		return NewInternalError(c, "Failed to convert API documentation")
	}
	return c.JSON(http.StatusOK, doc)
}
