// Package docs registers the OpenAPI description of the preview API with swag.
// Regenerate with `swag init -g cmd/bgremove/docs.go -o internal/docs`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {"name": "bgremover maintainers"},
        "license": {"name": "MIT", "url": "https://opensource.org/licenses/MIT"},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/upload": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "summary": "Start a background-removal session",
                "parameters": [
                    {"type": "file", "description": "Image to process", "name": "image", "in": "formData", "required": true}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/types.UploadResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/status": {
            "get": {
                "produces": ["application/json"],
                "summary": "Latest session status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.SessionStatus"}}
                }
            }
        },
        "/blob/{id}": {
            "get": {
                "produces": ["image/png", "application/octet-stream"],
                "summary": "Resolve an ephemeral image reference",
                "parameters": [
                    {"type": "string", "description": "Reference id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Revoked or unknown", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/download": {
            "get": {
                "produces": ["image/png"],
                "summary": "Download the transparent PNG of the latest successful session",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "No result", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/unload": {
            "post": {
                "summary": "Tear down the session and revoke every reference",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/keepalive": {
            "post": {
                "produces": ["application/json"],
                "summary": "Keep the session of an open page from idle teardown",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.KeepaliveResponse"}}
                }
            }
        },
        "/readyz": {
            "get": {
                "produces": ["application/json"],
                "summary": "Model readiness",
                "responses": {
                    "200": {"description": "Ready", "schema": {"$ref": "#/definitions/types.ModelStatus"}},
                    "503": {"description": "Not loaded", "schema": {"$ref": "#/definitions/types.ModelStatus"}}
                }
            }
        },
        "/healthz": {
            "get": {"summary": "Liveness", "responses": {"200": {"description": "ok"}}}
        }
    },
    "definitions": {
        "types.UploadResponse": {
            "type": "object",
            "properties": {
                "session_id": {"type": "integer", "example": 3},
                "status": {"type": "string", "example": "loading_model"}
            }
        },
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "image field is required"},
                "code": {"type": "integer", "example": 400}
            }
        },
        "types.SessionStatus": {
            "type": "object",
            "properties": {
                "id": {"type": "integer", "example": 3},
                "status": {"type": "string", "example": "segmenting"},
                "file_name": {"type": "string", "example": "Team Photo.JPG"},
                "download_name": {"type": "string", "example": "team-photo-no-bg.png"},
                "source_url": {"type": "string"},
                "result_url": {"type": "string"},
                "error_kind": {"type": "string", "example": "backend_unavailable"},
                "error": {"type": "string"},
                "processing": {"type": "boolean", "example": true}
            }
        },
        "types.KeepaliveResponse": {
            "type": "object",
            "properties": {
                "next_ms": {"type": "integer", "example": 200000}
            }
        },
        "types.ModelStatus": {
            "type": "object",
            "properties": {
                "state": {"type": "string", "example": "ready"},
                "backend": {"type": "string", "example": "baseline"},
                "last_error": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "bgremover preview API",
	Description:      "Local preview UI for removing photo backgrounds.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
