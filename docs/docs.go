// Package docs registers the OpenAPI document served under /swagger.
// Regenerate the paths with `swag init -g api/main.go`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/healthz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["ops"],
                "summary": "Liveness and database check",
                "responses": {
                    "200": {"description": "OK"},
                    "503": {"description": "Service Unavailable"}
                }
            }
        },
        "/api/pricing/shapes": {
            "get": {
                "produces": ["application/json"],
                "tags": ["pricing"],
                "summary": "List supported shapes and the dimensions each needs",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/pricing/densities": {
            "get": {
                "produces": ["application/json"],
                "tags": ["pricing"],
                "summary": "List material families and their densities (lb/in³)",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/quotes": {
            "get": {
                "produces": ["application/json"],
                "tags": ["quotes"],
                "summary": "List and filter quotes",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Invalid query"}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["quotes"],
                "summary": "Create a quote",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Validation errors"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Steel Quoter API",
	Description:      "REST API for quoting structural steel: customers, materials, quotes with priced BOMs and sales orders.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
