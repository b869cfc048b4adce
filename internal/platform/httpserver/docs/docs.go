// Package docs holds the hand-maintained swagger document served at
// /swagger/doc.json. Regenerate with swag init when handler annotations
// change.
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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["platform"],
                "summary": "Liveness probe",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/contract/info": {
            "get": {
                "produces": ["application/json"],
                "tags": ["proposal-ledger"],
                "summary": "Ledger deployment info",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/contract/create-proposal": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["proposal-ledger"],
                "summary": "Register a park-removal proposal",
                "parameters": [
                    {"type": "string", "name": "X-Account-Id", "in": "header", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/api/contract/proposal/{proposal_id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["proposal-ledger"],
                "summary": "Get one proposal",
                "parameters": [
                    {"type": "integer", "name": "proposal_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/api/contract/proposals": {
            "get": {
                "produces": ["application/json"],
                "tags": ["proposal-ledger"],
                "summary": "List proposal ids by status",
                "parameters": [
                    {"type": "string", "name": "status", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/api/contract/vote": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["proposal-ledger"],
                "summary": "Cast a binary vote",
                "parameters": [
                    {"type": "string", "name": "X-Account-Id", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/api/contract/close-proposal": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["proposal-ledger"],
                "summary": "Resolve an expired proposal from its tallies",
                "parameters": [
                    {"type": "string", "name": "X-Account-Id", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/api/contract/force-close": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["proposal-ledger"],
                "summary": "Force a proposal to a terminal status",
                "parameters": [
                    {"type": "string", "name": "X-Account-Id", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden"}
                }
            }
        },
        "/api/contract/set-funding-goal": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["proposal-ledger"],
                "summary": "Set the fundraising goal of an accepted proposal",
                "parameters": [
                    {"type": "string", "name": "X-Account-Id", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/api/contract/donate": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["proposal-ledger"],
                "summary": "Donate to an accepted proposal",
                "parameters": [
                    {"type": "string", "name": "X-Account-Id", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/api/contract/withdraw-funds": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["proposal-ledger"],
                "summary": "Withdraw the full escrow balance",
                "parameters": [
                    {"type": "string", "name": "X-Account-Id", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden"},
                    "502": {"description": "Bad Gateway"}
                }
            }
        },
        "/api/contract/donation-progress/{proposal_id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["proposal-ledger"],
                "summary": "Fundraising progress of a proposal",
                "parameters": [
                    {"type": "integer", "name": "proposal_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/api/contract/donations/{proposal_id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["proposal-ledger"],
                "summary": "Donation history of a proposal",
                "parameters": [
                    {"type": "integer", "name": "proposal_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "ParkPulse Governance API",
	Description:      "Community governance ledger for park-removal proposals: voting, resolution, and fundraising escrow.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
