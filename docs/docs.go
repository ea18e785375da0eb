// Package docs registers the OpenAPI document served under /swagger/.
// Regenerate with `go tool swag init -g cmd/api/main.go` after changing
// handler annotations.
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
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "Bearer access token from /api/auth/login"
        }
    },
    "paths": {
        "/api/auth/register": {"post": {"tags": ["auth"], "summary": "Register an account", "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterInput"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/Envelope"}}, "400": {"$ref": "#/responses/Error"}, "403": {"$ref": "#/responses/Error"}, "409": {"$ref": "#/responses/Error"}}}},
        "/api/auth/login": {"post": {"tags": ["auth"], "summary": "Obtain a token pair", "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/LoginInput"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}, "401": {"$ref": "#/responses/Error"}, "429": {"$ref": "#/responses/Error"}}}},
        "/api/auth/refresh": {"post": {"tags": ["auth"], "summary": "Exchange a refresh token", "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshInput"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}, "401": {"$ref": "#/responses/Error"}}}},
        "/api/profile": {
            "get": {"tags": ["profile"], "summary": "Current account", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}, "401": {"$ref": "#/responses/Error"}}},
            "put": {"tags": ["profile"], "summary": "Update the current account", "security": [{"BearerAuth": []}], "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/UserPayload"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}, "400": {"$ref": "#/responses/Error"}, "401": {"$ref": "#/responses/Error"}, "403": {"$ref": "#/responses/Error"}}},
            "patch": {"tags": ["profile"], "summary": "Update the current account", "security": [{"BearerAuth": []}], "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/UserPayload"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}, "400": {"$ref": "#/responses/Error"}, "401": {"$ref": "#/responses/Error"}, "403": {"$ref": "#/responses/Error"}}}
        },
        "/api/my-posts": {"get": {"tags": ["profile"], "summary": "Posts authored by the caller", "security": [{"BearerAuth": []}], "parameters": [{"$ref": "#/parameters/page"}, {"$ref": "#/parameters/page_size"}, {"$ref": "#/parameters/status"}, {"$ref": "#/parameters/search"}, {"$ref": "#/parameters/ordering"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}, "401": {"$ref": "#/responses/Error"}}}},
        "/api/posts": {
            "get": {"tags": ["posts"], "summary": "List posts", "parameters": [{"$ref": "#/parameters/page"}, {"$ref": "#/parameters/page_size"}, {"in": "query", "name": "category", "type": "integer"}, {"in": "query", "name": "tag", "type": "integer"}, {"in": "query", "name": "author", "type": "integer"}, {"$ref": "#/parameters/status"}, {"$ref": "#/parameters/search"}, {"$ref": "#/parameters/ordering"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}, "400": {"$ref": "#/responses/Error"}}},
            "post": {"tags": ["posts"], "summary": "Create a post", "security": [{"BearerAuth": []}], "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/PostPayload"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/Envelope"}}, "400": {"$ref": "#/responses/Error"}, "401": {"$ref": "#/responses/Error"}, "403": {"$ref": "#/responses/Error"}}}
        },
        "/api/posts/{id}": {
            "parameters": [{"$ref": "#/parameters/id"}],
            "get": {"tags": ["posts"], "summary": "Get a post", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}, "404": {"$ref": "#/responses/Error"}}},
            "put": {"tags": ["posts"], "summary": "Replace a post", "security": [{"BearerAuth": []}], "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/PostPayload"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}, "400": {"$ref": "#/responses/Error"}, "403": {"$ref": "#/responses/Error"}, "404": {"$ref": "#/responses/Error"}}},
            "patch": {"tags": ["posts"], "summary": "Partially update a post", "security": [{"BearerAuth": []}], "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/PostPayload"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}, "400": {"$ref": "#/responses/Error"}, "403": {"$ref": "#/responses/Error"}, "404": {"$ref": "#/responses/Error"}}},
            "delete": {"tags": ["posts"], "summary": "Delete a post", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}, "403": {"$ref": "#/responses/Error"}, "404": {"$ref": "#/responses/Error"}}}
        },
        "/api/categories": {
            "get": {"tags": ["categories"], "summary": "List categories", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}},
            "post": {"tags": ["categories"], "summary": "Create a category", "security": [{"BearerAuth": []}], "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/CategoryPayload"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/Envelope"}}, "400": {"$ref": "#/responses/Error"}, "403": {"$ref": "#/responses/Error"}, "409": {"$ref": "#/responses/Error"}}}
        },
        "/api/categories/{id}": {
            "parameters": [{"$ref": "#/parameters/id"}],
            "get": {"tags": ["categories"], "summary": "Get a category", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}, "404": {"$ref": "#/responses/Error"}}},
            "put": {"tags": ["categories"], "summary": "Replace a category", "security": [{"BearerAuth": []}], "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/CategoryPayload"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}, "400": {"$ref": "#/responses/Error"}, "403": {"$ref": "#/responses/Error"}, "404": {"$ref": "#/responses/Error"}}},
            "patch": {"tags": ["categories"], "summary": "Partially update a category", "security": [{"BearerAuth": []}], "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/CategoryPayload"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}, "400": {"$ref": "#/responses/Error"}, "403": {"$ref": "#/responses/Error"}, "404": {"$ref": "#/responses/Error"}}},
            "delete": {"tags": ["categories"], "summary": "Delete a category", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}, "403": {"$ref": "#/responses/Error"}, "404": {"$ref": "#/responses/Error"}}}
        },
        "/api/tags": {
            "get": {"tags": ["tags"], "summary": "List tags", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}},
            "post": {"tags": ["tags"], "summary": "Create a tag", "security": [{"BearerAuth": []}], "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/TagPayload"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/Envelope"}}, "400": {"$ref": "#/responses/Error"}, "403": {"$ref": "#/responses/Error"}, "409": {"$ref": "#/responses/Error"}}}
        },
        "/api/tags/{id}": {
            "parameters": [{"$ref": "#/parameters/id"}],
            "get": {"tags": ["tags"], "summary": "Get a tag", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}, "404": {"$ref": "#/responses/Error"}}},
            "put": {"tags": ["tags"], "summary": "Replace a tag", "security": [{"BearerAuth": []}], "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/TagPayload"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}, "400": {"$ref": "#/responses/Error"}, "403": {"$ref": "#/responses/Error"}, "404": {"$ref": "#/responses/Error"}}},
            "patch": {"tags": ["tags"], "summary": "Partially update a tag", "security": [{"BearerAuth": []}], "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/TagPayload"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}, "400": {"$ref": "#/responses/Error"}, "403": {"$ref": "#/responses/Error"}, "404": {"$ref": "#/responses/Error"}}},
            "delete": {"tags": ["tags"], "summary": "Delete a tag", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}, "403": {"$ref": "#/responses/Error"}, "404": {"$ref": "#/responses/Error"}}}
        },
        "/api/users": {"get": {"tags": ["users"], "summary": "List users", "parameters": [{"$ref": "#/parameters/page"}, {"$ref": "#/parameters/page_size"}, {"$ref": "#/parameters/search"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}}},
        "/api/users/{id}": {
            "parameters": [{"$ref": "#/parameters/id"}],
            "get": {"tags": ["users"], "summary": "Get a user", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}, "404": {"$ref": "#/responses/Error"}}},
            "patch": {"tags": ["users"], "summary": "Update a user", "security": [{"BearerAuth": []}], "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/UserPayload"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}, "400": {"$ref": "#/responses/Error"}, "403": {"$ref": "#/responses/Error"}, "404": {"$ref": "#/responses/Error"}}},
            "delete": {"tags": ["users"], "summary": "Delete a user", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}, "403": {"$ref": "#/responses/Error"}, "404": {"$ref": "#/responses/Error"}}}
        },
        "/health": {"get": {"tags": ["ops"], "summary": "Health check", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}, "503": {"$ref": "#/responses/Error"}}}}
    },
    "parameters": {
        "id": {"in": "path", "name": "id", "required": true, "type": "integer"},
        "page": {"in": "query", "name": "page", "type": "integer"},
        "page_size": {"in": "query", "name": "page_size", "type": "integer", "maximum": 100},
        "status": {"in": "query", "name": "status", "type": "string", "enum": ["draft", "published"]},
        "search": {"in": "query", "name": "search", "type": "string"},
        "ordering": {"in": "query", "name": "ordering", "type": "string", "enum": ["created_at", "-created_at", "updated_at", "-updated_at", "published_at", "-published_at", "title", "-title"]}
    },
    "responses": {
        "Error": {"description": "Error envelope", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
    },
    "definitions": {
        "Envelope": {"type": "object", "properties": {"status_code": {"type": "integer"}, "message": {"type": "string"}, "data": {}}},
        "ErrorEnvelope": {"type": "object", "properties": {"status_code": {"type": "integer"}, "message": {"type": "string"}, "data": {"type": "object", "properties": {"fields": {"type": "object", "additionalProperties": {"type": "string"}}}}}},
        "RegisterInput": {"type": "object", "required": ["username", "password"], "properties": {"username": {"type": "string", "maxLength": 150}, "email": {"type": "string"}, "password": {"type": "string", "minLength": 8}, "first_name": {"type": "string"}, "last_name": {"type": "string"}, "role": {"type": "string", "enum": ["admin", "editor", "reader"]}}},
        "LoginInput": {"type": "object", "required": ["username", "password"], "properties": {"username": {"type": "string"}, "password": {"type": "string"}}},
        "RefreshInput": {"type": "object", "required": ["refresh"], "properties": {"refresh": {"type": "string"}}},
        "UserPayload": {"type": "object", "properties": {"email": {"type": "string"}, "first_name": {"type": "string"}, "last_name": {"type": "string"}, "role": {"type": "string", "enum": ["admin", "editor", "reader"]}}},
        "PostPayload": {"type": "object", "properties": {"title": {"type": "string", "maxLength": 200}, "content": {"type": "string"}, "category": {"type": "integer"}, "tag_ids": {"type": "array", "items": {"type": "integer"}}, "status": {"type": "string", "enum": ["draft", "published"]}}},
        "CategoryPayload": {"type": "object", "properties": {"name": {"type": "string", "maxLength": 100}, "description": {"type": "string"}}},
        "TagPayload": {"type": "object", "properties": {"name": {"type": "string", "maxLength": 50}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Inkpress API",
	Description:      "Content management API with role-based authorization and draft visibility.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
