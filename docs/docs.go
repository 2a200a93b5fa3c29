// Package docs holds the OpenAPI document served at /swagger. Regenerate
// with: swag init -g cmd/server/main.go --v3.1 -o docs
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "openapi": "3.1.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "servers": [{"url": "{{.BasePath}}"}],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "User login",
                "requestBody": {"content": {"application/json": {"schema": {"$ref": "#/components/schemas/contract.LoginParams"}}}, "required": true},
                "responses": {
                    "200": {"description": "OK", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/dto.Response"}}}},
                    "401": {"description": "Unauthorized", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/dto.Response"}}}},
                    "429": {"description": "Too Many Requests", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/dto.Response"}}}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "User logout",
                "responses": {"200": {"description": "OK", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/dto.Response"}}}}}
            }
        },
        "/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Current user",
                "responses": {"200": {"description": "OK", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/dto.Response"}}}}}
            }
        },
        "/{family}": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["families"],
                "summary": "Run a family operation",
                "parameters": [{
                    "name": "family", "in": "path", "required": true,
                    "schema": {"type": "string", "enum": ["customers", "suppliers", "cities", "petty-cash", "payment-vouchers", "lease-receipts", "lease-invoices", "lookups"]}
                }],
                "requestBody": {"content": {"application/json": {"schema": {"$ref": "#/components/schemas/contract.Envelope"}}}, "required": true},
                "responses": {
                    "200": {"description": "OK", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/dto.Response"}}}},
                    "400": {"description": "Bad Request", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/dto.Response"}}}},
                    "404": {"description": "Not Found", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/dto.Response"}}}},
                    "409": {"description": "Conflict", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/dto.Response"}}}},
                    "422": {"description": "Unprocessable Entity", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/dto.Response"}}}}
                }
            }
        },
        "/exports/{document}/{id}/pdf": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["exports"],
                "summary": "Download a document as PDF",
                "parameters": [
                    {"name": "document", "in": "path", "required": true, "schema": {"type": "string", "enum": ["payment-vouchers", "petty-cash", "lease-receipts"]}},
                    {"name": "id", "in": "path", "required": true, "schema": {"type": "integer"}}
                ],
                "responses": {"200": {"description": "OK", "content": {"application/pdf": {"schema": {"type": "string", "format": "binary"}}}}}
            }
        },
        "/exports/{list}/xlsx": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["exports"],
                "summary": "Download a list as a spreadsheet",
                "parameters": [
                    {"name": "list", "in": "path", "required": true, "schema": {"type": "string", "enum": ["customers", "suppliers", "payment-vouchers"]}},
                    {"name": "search", "in": "query", "schema": {"type": "string"}},
                    {"name": "sort", "in": "query", "schema": {"type": "string"}},
                    {"name": "direction", "in": "query", "schema": {"type": "string", "enum": ["asc", "desc"]}},
                    {"name": "active", "in": "query", "schema": {"type": "boolean"}},
                    {"name": "status", "in": "query", "schema": {"type": "string"}}
                ],
                "responses": {"200": {"description": "OK", "content": {"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": {"schema": {"type": "string", "format": "binary"}}}}}
            }
        },
        "/system/info": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["system"],
                "summary": "Get system information",
                "responses": {"200": {"description": "OK", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/dto.Response"}}}}}
            }
        }
    },
    "components": {
        "schemas": {
            "contract.Envelope": {
                "type": "object",
                "properties": {
                    "mode": {"type": "integer", "minimum": 1},
                    "parameters": {"type": "object"}
                }
            },
            "contract.LoginParams": {
                "type": "object",
                "required": ["Username", "Password"],
                "properties": {
                    "Username": {"type": "string", "minLength": 3, "maxLength": 100},
                    "Password": {"type": "string", "maxLength": 72}
                }
            },
            "dto.ErrorInfo": {
                "type": "object",
                "properties": {
                    "code": {"type": "string", "example": "ERR_NOT_FOUND"},
                    "message": {"type": "string"},
                    "request_id": {"type": "string"},
                    "timestamp": {"type": "string", "format": "date-time"},
                    "details": {"type": "array", "items": {"$ref": "#/components/schemas/dto.ValidationDetail"}}
                }
            },
            "dto.Meta": {
                "type": "object",
                "properties": {
                    "total": {"type": "integer"},
                    "page": {"type": "integer"},
                    "page_size": {"type": "integer"},
                    "total_pages": {"type": "integer"}
                }
            },
            "dto.Response": {
                "type": "object",
                "properties": {
                    "success": {"type": "boolean"},
                    "data": {},
                    "error": {"$ref": "#/components/schemas/dto.ErrorInfo"},
                    "meta": {"$ref": "#/components/schemas/dto.Meta"}
                }
            },
            "dto.ValidationDetail": {
                "type": "object",
                "properties": {
                    "field": {"type": "string"},
                    "message": {"type": "string"}
                }
            }
        },
        "securitySchemes": {
            "BearerAuth": {
                "type": "apiKey",
                "description": "Bearer token authentication. Format: \"Bearer {token}\"",
                "name": "Authorization",
                "in": "header"
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "ERP Back Office API",
	Description:      "Entity services of the ERP back office behind the {mode, parameters} protocol",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
