// Package docs registers the OpenAPI description of the API with swag.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/ai/questions": {
            "get": {
                "summary": "First questions a session for a persona would ask",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "persona", "in": "query", "required": true, "enum": ["c_suite", "manager", "practitioner"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/QuestionsResponse"}},
                    "400": {"description": "Invalid or missing persona", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/api/ai/assessment": {
            "post": {
                "summary": "Create an assessment record",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateAssessmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/api/ai/assessment/{id}": {
            "get": {
                "summary": "Get an assessment with its report status",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/api/ai/assessment/{id}/answer": {
            "post": {
                "summary": "Append answers",
                "consumes": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/api/ai/assessment/{id}/finalize": {
            "post": {
                "summary": "Fix the result and start report generation",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "202": {"description": "Accepted"},
                    "400": {"description": "Invalid score", "schema": {"$ref": "#/definitions/Error"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/api/ai/assessment/{id}/send-report": {
            "post": {
                "summary": "Email the generated report",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Error"}},
                    "409": {"description": "Report not ready", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/api/contact": {
            "get": {"summary": "List contact requests, newest first", "responses": {"200": {"description": "OK"}}},
            "post": {
                "summary": "Submit a contact request",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Invalid service value.", "schema": {"$ref": "#/definitions/Error"}}
                }
            },
            "delete": {"summary": "Delete all contact requests", "responses": {"200": {"description": "OK"}}}
        },
        "/api/blogs": {
            "get": {"summary": "List blog posts, newest first", "responses": {"200": {"description": "OK"}}},
            "post": {
                "summary": "Create a blog post",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Missing title or description", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/api/blogs/{id}": {
            "get": {
                "summary": "Get a blog post",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Blog not found", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/ws/ai-readiness": {
            "get": {
                "summary": "AI readiness assessment websocket",
                "responses": {"101": {"description": "Switching Protocols"}}
            }
        },
        "/health": {
            "get": {"summary": "Liveness probe", "responses": {"200": {"description": "OK"}}}
        }
    },
    "definitions": {
        "Error": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "CreateAssessmentRequest": {
            "type": "object",
            "required": ["name", "email", "persona"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "company_name": {"type": "string"},
                "role": {"type": "string"},
                "persona": {"type": "string"}
            }
        },
        "QuestionsResponse": {
            "type": "object",
            "properties": {
                "persona": {"type": "string"},
                "total": {"type": "integer"},
                "questions": {"type": "array", "items": {"type": "object"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Inflecto API",
	Description:      "AI readiness assessment, contact and blog API.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
