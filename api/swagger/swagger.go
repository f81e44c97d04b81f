package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Faculty Leave API",
        "description": "Leave request and workload reassignment workflow for faculty departments",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Auth", "description": "Registration and login"},
        {"name": "Leaves", "description": "Leave request lifecycle"},
        {"name": "Workloads", "description": "Workload reassignment during leaves"},
        {"name": "Dashboard", "description": "Derived workflow statistics"},
        {"name": "Users", "description": "Faculty directory"},
        {"name": "Reports", "description": "Leave exports"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Database unreachable"}
                }
            }
        },
        "/auth/register": {
            "post": {
                "tags": ["Auth"],
                "summary": "Register a faculty member or head of department",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Envelope"}},
                    "400": {"description": "Validation failed"},
                    "409": {"description": "Email already registered"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Exchange credentials for an access token",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "401": {"description": "Invalid credentials or inactive account"}
                }
            }
        },
        "/leaves": {
            "post": {
                "tags": ["Leaves"],
                "summary": "Submit a leave request",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateLeaveRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Envelope"}},
                    "400": {"description": "Validation failed"},
                    "403": {"description": "Only faculty may request leave"}
                }
            },
            "get": {
                "tags": ["Leaves"],
                "summary": "List leave requests within the caller's visibility",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "status", "in": "query", "type": "string", "description": "Comma-separated status filter"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "offset", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/leaves/{id}": {
            "get": {
                "tags": ["Leaves"],
                "summary": "Fetch a single leave request",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "403": {"description": "Outside the caller's visibility"},
                    "404": {"description": "Not found"}
                }
            },
            "delete": {
                "tags": ["Leaves"],
                "summary": "Cancel a pending leave request",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Cancelled"},
                    "409": {"description": "Request already resolved"}
                }
            }
        },
        "/leaves/{id}/approve": {
            "patch": {
                "tags": ["Leaves"],
                "summary": "Approve a pending leave request",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "body", "in": "body", "schema": {"$ref": "#/definitions/ApproveLeaveRequest"}}
                ],
                "responses": {
                    "200": {"description": "Approved (idempotent on re-approval)", "schema": {"$ref": "#/definitions/Envelope"}},
                    "403": {"description": "Outside the approver's department"},
                    "409": {"description": "Request already rejected"}
                }
            }
        },
        "/leaves/{id}/reject": {
            "patch": {
                "tags": ["Leaves"],
                "summary": "Reject a pending leave request",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RejectLeaveRequest"}}
                ],
                "responses": {
                    "200": {"description": "Rejected (idempotent on re-rejection)", "schema": {"$ref": "#/definitions/Envelope"}},
                    "409": {"description": "Request already approved"}
                }
            }
        },
        "/workloads": {
            "post": {
                "tags": ["Workloads"],
                "summary": "Assign workload coverage for a leave",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateWorkloadRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Envelope"}},
                    "403": {"description": "Assignee outside the caller's department"},
                    "409": {"description": "Parent leave already rejected"}
                }
            },
            "get": {
                "tags": ["Workloads"],
                "summary": "List workload assignments within the caller's visibility",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "view", "in": "query", "type": "string", "description": "received (default) or issued"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "offset", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/workloads/{id}": {
            "get": {
                "tags": ["Workloads"],
                "summary": "Fetch a single workload assignment",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/workloads/{id}/respond": {
            "patch": {
                "tags": ["Workloads"],
                "summary": "Accept or reject a pending workload assignment",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RespondWorkloadRequest"}}
                ],
                "responses": {
                    "200": {"description": "Responded", "schema": {"$ref": "#/definitions/Envelope"}},
                    "409": {"description": "Assignment already responded to"}
                }
            }
        },
        "/dashboard": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Workflow statistics scoped to the caller",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/users/faculty": {
            "get": {
                "tags": ["Users"],
                "summary": "Active faculty directory for the caller's department",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/reports/leaves": {
            "get": {
                "tags": ["Reports"],
                "summary": "Export visible leave records as CSV or PDF",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "description": "csv (default) or pdf"}
                ],
                "produces": ["application/octet-stream"],
                "responses": {
                    "200": {"description": "File download"},
                    "403": {"description": "Faculty may not export reports"}
                }
            }
        }
    },
    "definitions": {
        "RegisterRequest": {
            "type": "object",
            "required": ["name", "email", "password", "role", "department"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "role": {"type": "string", "enum": ["faculty", "hod"]},
                "department": {"type": "string"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "CreateLeaveRequest": {
            "type": "object",
            "required": ["leave_type", "start_date", "end_date", "reason"],
            "properties": {
                "leave_type": {"type": "string", "enum": ["sick", "casual", "vacation", "emergency", "personal", "other"]},
                "start_date": {"type": "string", "format": "date"},
                "end_date": {"type": "string", "format": "date"},
                "reason": {"type": "string"}
            }
        },
        "ApproveLeaveRequest": {
            "type": "object",
            "properties": {
                "comments": {"type": "string"}
            }
        },
        "RejectLeaveRequest": {
            "type": "object",
            "required": ["rejection_reason"],
            "properties": {
                "rejection_reason": {"type": "string"}
            }
        },
        "CreateWorkloadRequest": {
            "type": "object",
            "required": ["leave_id", "assigned_to", "subjects", "classes", "total_hours"],
            "properties": {
                "leave_id": {"type": "string"},
                "assigned_to": {"type": "string"},
                "subjects": {"type": "array", "items": {"type": "string"}},
                "classes": {"type": "array", "items": {"type": "string"}},
                "total_hours": {"type": "number"}
            }
        },
        "RespondWorkloadRequest": {
            "type": "object",
            "required": ["decision"],
            "properties": {
                "decision": {"type": "string", "enum": ["accept", "reject"]},
                "rejection_reason": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total": {"type": "integer"}
            }
        },
        "Envelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
