// Package docs registers the OpenAPI document served on /swagger by the
// gateway. The document is maintained by hand alongside the routers in
// internal/api.
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
        "/auth/register": {"post": {"tags": ["auth"], "summary": "Register a standard subject", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}},
        "/auth/register/owner": {"post": {"tags": ["auth"], "summary": "Register a resource owner", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Login", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}}},
        "/auth/logout": {"post": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Logout", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/auth/password": {"put": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Change password", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}}},
        "/admin/identities": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "List identities", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Register an administrator", "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}
        },
        "/admin/identities/{id}/status": {"put": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Update identity status", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/profiles": {"get": {"security": [{"BearerAuth": []}], "tags": ["profiles"], "summary": "List profiles", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/profiles/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["profiles"], "summary": "Get a profile", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["profiles"], "summary": "Update a profile", "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["profiles"], "summary": "Delete a profile", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/resources": {
            "get": {"tags": ["resources"], "summary": "Search resources", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["resources"], "summary": "Create a resource", "responses": {"201": {"description": "Created"}, "403": {"description": "Forbidden"}, "409": {"description": "Conflict"}}}
        },
        "/resources/deleted": {"get": {"security": [{"BearerAuth": []}], "tags": ["resources"], "summary": "List deleted resources", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/resources/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["resources"], "summary": "Get a resource", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["resources"], "summary": "Update a resource", "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["resources"], "summary": "Delete a resource", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}
        },
        "/resources/{id}/status": {"put": {"security": [{"BearerAuth": []}], "tags": ["resources"], "summary": "Update resource status", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/feedback": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["feedback"], "summary": "List feedback visible to the caller", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["feedback"], "summary": "Create feedback", "responses": {"201": {"description": "Created"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}}
        },
        "/feedback/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["feedback"], "summary": "Get feedback", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["feedback"], "summary": "Delete feedback", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}
        },
        "/feedback/{id}/comment": {"put": {"security": [{"BearerAuth": []}], "tags": ["feedback"], "summary": "Update a feedback comment", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/feedback/{id}/status": {"put": {"security": [{"BearerAuth": []}], "tags": ["feedback"], "summary": "Update feedback status", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/feedback/author/{subjectId}": {"get": {"security": [{"BearerAuth": []}], "tags": ["feedback"], "summary": "List feedback by author", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/feedback/resource/{resourceId}": {"get": {"tags": ["feedback"], "summary": "List feedback on a resource", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}}},
        "/feedback/resource/{resourceId}/average": {"get": {"tags": ["feedback"], "summary": "Average score of a resource", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "VenueHub Platform API",
	Description:      "Gateway for the identity, profile, resource and feedback services.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
