// Package docs registers the OpenAPI document served under /swagger/.
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
        "/candidates": {
            "get": {
                "produces": ["application/json"],
                "tags": ["candidates"],
                "summary": "List candidates with their vote counters",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/candidates/{candidate_id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["candidates"],
                "summary": "Get one candidate",
                "parameters": [{"type": "string", "name": "candidate_id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "not_found"}}
            }
        },
        "/votes": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["votes"],
                "summary": "Cast one ballot for a candidate",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "validation_error"},
                    "404": {"description": "not_found"},
                    "409": {"description": "conflict"},
                    "429": {"description": "limit_exceeded"}
                }
            }
        },
        "/votes/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["votes"],
                "summary": "Ballots used and remaining for the caller",
                "parameters": [{"type": "string", "name": "device_fingerprint", "in": "query"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/votes/mine": {
            "get": {
                "produces": ["application/json"],
                "tags": ["votes"],
                "summary": "Candidates the caller voted for",
                "parameters": [{"type": "string", "name": "device_fingerprint", "in": "query"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/votes/recent": {
            "get": {
                "produces": ["application/json"],
                "tags": ["votes"],
                "summary": "Most recent ballots",
                "parameters": [{"type": "integer", "name": "limit", "in": "query"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/statistics": {
            "get": {
                "produces": ["application/json"],
                "tags": ["votes"],
                "summary": "Aggregate voting statistics",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/config": {
            "get": {
                "produces": ["application/json"],
                "tags": ["config"],
                "summary": "Current vote configuration",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/lottery/history": {
            "get": {
                "produces": ["application/json"],
                "tags": ["lottery"],
                "summary": "All lottery records, newest round first",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/lottery/rounds/{round}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["lottery"],
                "summary": "Winners of one round",
                "parameters": [{"type": "integer", "name": "round", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "validation_error"}}
            }
        },
        "/lottery/settings": {
            "get": {
                "produces": ["application/json"],
                "tags": ["lottery"],
                "summary": "Saved lottery settings",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/events": {
            "get": {
                "produces": ["text/event-stream"],
                "tags": ["broadcast"],
                "summary": "Live vote_update and lottery_result events",
                "parameters": [{"type": "string", "name": "topic", "in": "query"}],
                "responses": {"200": {"description": "event stream"}}
            }
        },
        "/admin/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Exchange admin credentials for a bearer token",
                "responses": {"200": {"description": "OK"}, "401": {"description": "invalid_credentials"}}
            }
        },
        "/admin/lottery/draw": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["lottery"],
                "summary": "Draw winners for a new round",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "unauthorized"},
                    "422": {"description": "empty_pool or insufficient_pool"}
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "LAN Vote API",
	Description:      "Voting, lottery and live broadcast endpoints for a local-network event.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
