// Package docs registers the OpenAPI document served under /swagger. It follows
// the layout swag emits and is kept in sync with the handler annotations by hand;
// `swag init -g cmd/api/main.go` regenerates an equivalent file.
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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness check",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    },
                    "503": {
                        "description": "Service Unavailable",
                        "schema": {"$ref": "#/definitions/handler.errorPayload"}
                    }
                }
            }
        },
        "/healthz": {
            "get": {
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/questionnaires": {
            "get": {
                "produces": ["application/json"],
                "tags": ["questionnaires"],
                "summary": "List questionnaires",
                "parameters": [
                    {"type": "integer", "default": 10, "description": "page size", "name": "limit", "in": "query"},
                    {"type": "integer", "default": 0, "description": "page offset", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/service.QuestionnaireListResult"}
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {"$ref": "#/definitions/handler.errorPayload"}
                    }
                }
            },
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["questionnaires"],
                "summary": "Upload a questionnaire",
                "parameters": [
                    {"type": "file", "description": "pdf, docx, txt, csv, xls or xlsx document", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {"$ref": "#/definitions/model.Questionnaire"}
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {"$ref": "#/definitions/handler.errorPayload"}
                    },
                    "413": {
                        "description": "Request Entity Too Large",
                        "schema": {"$ref": "#/definitions/handler.errorPayload"}
                    },
                    "415": {
                        "description": "Unsupported Media Type",
                        "schema": {"$ref": "#/definitions/handler.errorPayload"}
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {"$ref": "#/definitions/handler.errorPayload"}
                    },
                    "504": {
                        "description": "Gateway Timeout",
                        "schema": {"$ref": "#/definitions/handler.errorPayload"}
                    }
                }
            }
        },
        "/questionnaires/preview": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["questionnaires"],
                "summary": "Parse without storing",
                "parameters": [
                    {"type": "file", "description": "pdf, docx, txt, csv, xls or xlsx document", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/model.ParsedDocument"}
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {"$ref": "#/definitions/handler.errorPayload"}
                    },
                    "415": {
                        "description": "Unsupported Media Type",
                        "schema": {"$ref": "#/definitions/handler.errorPayload"}
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {"$ref": "#/definitions/handler.errorPayload"}
                    }
                }
            }
        },
        "/questionnaires/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["questionnaires"],
                "summary": "Get a questionnaire",
                "parameters": [
                    {"type": "string", "description": "questionnaire id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/model.Questionnaire"}
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {"$ref": "#/definitions/handler.errorPayload"}
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {"$ref": "#/definitions/handler.errorPayload"}
                    }
                }
            },
            "delete": {
                "tags": ["questionnaires"],
                "summary": "Delete a questionnaire",
                "parameters": [
                    {"type": "string", "description": "questionnaire id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {
                        "description": "Bad Request",
                        "schema": {"$ref": "#/definitions/handler.errorPayload"}
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {"$ref": "#/definitions/handler.errorPayload"}
                    }
                }
            }
        },
        "/questionnaires/{id}/reparse": {
            "post": {
                "produces": ["application/json"],
                "tags": ["questionnaires"],
                "summary": "Re-parse a stored questionnaire",
                "parameters": [
                    {"type": "string", "description": "questionnaire id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/model.Questionnaire"}
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {"$ref": "#/definitions/handler.errorPayload"}
                    },
                    "410": {
                        "description": "Gone",
                        "schema": {"$ref": "#/definitions/handler.errorPayload"}
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {"$ref": "#/definitions/handler.errorPayload"}
                    }
                }
            }
        },
        "/questionnaires/{id}/source": {
            "get": {
                "produces": ["application/json"],
                "tags": ["questionnaires"],
                "summary": "Download link for the original file",
                "parameters": [
                    {"type": "string", "description": "questionnaire id", "name": "id", "in": "path", "required": true},
                    {"type": "string", "default": "15m", "description": "link lifetime, e.g. 10m", "name": "expiry", "in": "query"}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/handler.sourceResponse"}
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {"$ref": "#/definitions/handler.errorPayload"}
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {"$ref": "#/definitions/handler.errorPayload"}
                    }
                }
            }
        }
    },
    "definitions": {
        "handler.errorEnvelope": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handler.errorPayload": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/handler.errorEnvelope"},
                "request_id": {"type": "string"}
            }
        },
        "handler.sourceResponse": {
            "type": "object",
            "properties": {
                "expires_in": {"type": "integer"},
                "url": {"type": "string"}
            }
        },
        "model.FormatKind": {
            "type": "string",
            "enum": ["pdf", "docx", "txt", "csv", "xlsx"],
            "x-enum-varnames": ["FormatPDF", "FormatDOCX", "FormatTXT", "FormatCSV", "FormatXLSX"]
        },
        "model.ParsedDocument": {
            "type": "object",
            "properties": {
                "format_kind": {"$ref": "#/definitions/model.FormatKind"},
                "sections": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/model.Section"}
                }
            }
        },
        "model.Question": {
            "type": "object",
            "properties": {
                "options": {
                    "type": "array",
                    "items": {"type": "string"}
                },
                "text": {"type": "string"}
            }
        },
        "model.Questionnaire": {
            "type": "object",
            "properties": {
                "content_type": {"type": "string"},
                "created_at": {"type": "string"},
                "filename": {"type": "string"},
                "format_kind": {"$ref": "#/definitions/model.FormatKind"},
                "id": {"type": "string"},
                "original_filename": {"type": "string"},
                "sections": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/model.Section"}
                },
                "size": {"type": "integer"},
                "storage_path": {"type": "string"}
            }
        },
        "model.QuestionnaireSummary": {
            "type": "object",
            "properties": {
                "content_type": {"type": "string"},
                "created_at": {"type": "string"},
                "filename": {"type": "string"},
                "format_kind": {"$ref": "#/definitions/model.FormatKind"},
                "id": {"type": "string"},
                "original_filename": {"type": "string"},
                "size": {"type": "integer"},
                "storage_path": {"type": "string"}
            }
        },
        "model.Section": {
            "type": "object",
            "properties": {
                "questions": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/model.Question"}
                },
                "title": {"type": "string"}
            }
        },
        "service.QuestionnaireListResult": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/model.QuestionnaireSummary"}
                },
                "total": {"type": "integer"}
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
	Title:            "Questionnaire API",
	Description:      "Parses survey questionnaires (pdf, docx, txt, csv, xls, xlsx) into sections and questions.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
