package server

import (
	"net/http"

	"github.com/invopop/jsonschema"

	"study-gateway/internal/apierror"
	"study-gateway/internal/professor"
	"study-gateway/internal/study"
)

const (
	docTitle   = "Projeto Cloud - Pedro Andriotti"
	docVersion = "1.0.0"
)

func schemaOf(v any) *jsonschema.Schema {
	r := &jsonschema.Reflector{DoNotReference: true}
	s := r.Reflect(v)
	s.Version = ""
	s.ID = ""
	return s
}

func jsonContent(schemaRef string) map[string]any {
	return map[string]any{
		"application/json": map[string]any{
			"schema": map[string]any{"$ref": "#/components/schemas/" + schemaRef},
		},
	}
}

func errorResponse(description string) map[string]any {
	return map[string]any{"description": description, "content": jsonContent("ErrorResponse")}
}

// OpenAPIDocument descreve a API em OpenAPI 3.0. Os schemas saem dos próprios
// tipos Go.
func OpenAPIDocument() map[string]any {
	return map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":       docTitle,
			"description": "API que envia perguntas de estudantes para o professor virtual (Gemini).",
			"version":     docVersion,
		},
		"paths": map[string]any{
			"/study": map[string]any{
				"post": map[string]any{
					"tags":    []string{"Study"},
					"summary": "Envia uma pergunta para o professor virtual Gemini",
					"requestBody": map[string]any{
						"required": true,
						"content":  jsonContent("StudyRequest"),
					},
					"responses": map[string]any{
						"200": map[string]any{
							"description": "Resposta gerada pelo Gemini no formato pedagógico solicitado.",
							"content":     jsonContent("StudyResponse"),
						},
						"400": errorResponse("O campo question não foi enviado."),
						"429": errorResponse("Limite de 5 requisições por minuto atingido para esta origem."),
						"503": errorResponse("Gemini temporariamente sobrecarregado."),
						"500": errorResponse("Falha interna ao processar a solicitação no Gemini."),
					},
				},
			},
			"/health": map[string]any{
				"get": map[string]any{
					"tags":    []string{"Health"},
					"summary": "Verifica se o serviço está no ar",
					"responses": map[string]any{
						"200": map[string]any{
							"description": "Serviço disponível.",
							"content":     jsonContent("HealthResponse"),
						},
					},
				},
			},
		},
		"components": map[string]any{
			"schemas": map[string]any{
				"StudyRequest":   schemaOf(&study.StudyRequest{}),
				"StudyResponse":  schemaOf(&professor.Explanation{}),
				"HealthResponse": schemaOf(&study.HealthResponse{}),
				"ErrorResponse":  schemaOf(&apierror.Body{}),
			},
		},
	}
}

func docsHandler() http.HandlerFunc {
	doc := OpenAPIDocument()
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, doc)
	}
}
