package http

import (
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/aretw0/scout/pkg/tools"
)

// OpenAPI describes the HTTP API, one POST operation per registered tool.
func OpenAPI(reg *tools.Registry, version string) *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       "scout",
			Description: "Company, job and employee lookup tools",
			Version:     strings.TrimSpace(version),
		},
		Paths: openapi3.NewPaths(),
	}

	errorSchema := openapi3.NewObjectSchema().
		WithProperty("code", openapi3.NewIntegerSchema()).
		WithProperty("message", openapi3.NewStringSchema())
	errorResponse := func(desc string) *openapi3.Response {
		return openapi3.NewResponse().WithDescription(desc).WithJSONSchema(errorSchema)
	}

	health := openapi3.NewOperation()
	health.OperationID = "health"
	health.Summary = "Liveness and backend health"
	health.AddResponse(200, openapi3.NewResponse().WithDescription("Healthy").WithJSONSchema(openapi3.NewObjectSchema()))
	health.AddResponse(503, errorResponse("A backend is unreachable"))
	doc.Paths.Set("/healthz", &openapi3.PathItem{Get: health})

	list := openapi3.NewOperation()
	list.OperationID = "listTools"
	list.Summary = "List the available tools"
	list.AddResponse(200, openapi3.NewResponse().WithDescription("Tools").WithJSONSchema(openapi3.NewArraySchema().WithItems(openapi3.NewObjectSchema())))
	doc.Paths.Set("/tools", &openapi3.PathItem{Get: list})

	for _, t := range reg.List() {
		op := openapi3.NewOperation()
		op.OperationID = t.Name
		op.Summary = t.Description
		op.RequestBody = &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchema(argsSchema(t)),
		}
		op.AddResponse(200, openapi3.NewResponse().WithDescription("Tool result").WithJSONSchema(openapi3.NewObjectSchema()))
		op.AddResponse(400, errorResponse("Invalid arguments or unknown identifier"))
		op.AddResponse(500, errorResponse("Provider or internal failure"))
		doc.Paths.Set("/tools/"+t.Name, &openapi3.PathItem{Post: op})
	}
	return doc
}

func argsSchema(t tools.Tool) *openapi3.Schema {
	s := openapi3.NewObjectSchema()
	for _, p := range t.Params {
		var ps *openapi3.Schema
		switch p.Type {
		case tools.TypeArray:
			ps = openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())
		case tools.TypeNumber:
			ps = openapi3.NewFloat64Schema()
		case tools.TypeBoolean:
			ps = openapi3.NewBoolSchema()
		default:
			ps = openapi3.NewStringSchema()
			if len(p.Enum) > 0 {
				values := make([]any, len(p.Enum))
				for i, v := range p.Enum {
					values[i] = v
				}
				ps = ps.WithEnum(values...)
			}
		}
		ps.Description = p.Description
		s.WithProperty(p.Name, ps)
	}
	s.Required = t.RequiredParams()
	return s
}
