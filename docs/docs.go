// Package docs 注册 Swagger 文档，修改 handler 注释后用 swag init 重新生成
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
        "/users/login": {
            "post": {
                "tags": ["用户"],
                "summary": "用户登录",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/api.LoginRequest"}}],
                "responses": {
                    "200": {"description": "登录成功", "schema": {"$ref": "#/definitions/api.Response"}},
                    "401": {"description": "邮箱或密码错误", "schema": {"$ref": "#/definitions/api.Response"}},
                    "429": {"description": "尝试过于频繁", "schema": {"$ref": "#/definitions/api.Response"}}
                }
            }
        },
        "/users/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["用户"],
                "summary": "当前用户",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/api.Response"}}}
            }
        },
        "/users/logout": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["用户"],
                "summary": "退出登录",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/api.Response"}}}
            }
        },
        "/budgets": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["预算"],
                "summary": "创建预算",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/api.CreateBudgetRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/api.Response"}},
                    "400": {"description": "请求参数错误", "schema": {"$ref": "#/definitions/api.Response"}},
                    "409": {"description": "本月已创建或没有可沿用的预算", "schema": {"$ref": "#/definitions/api.Response"}}
                }
            }
        },
        "/budgets/current": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["预算"],
                "summary": "当前预算",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/api.Response"}}}
            }
        },
        "/budgets/{id}/stats": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["预算"],
                "summary": "预算统计",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.Response"}},
                    "404": {"description": "预算不存在", "schema": {"$ref": "#/definitions/api.Response"}}
                }
            }
        },
        "/budgets/{id}/entries": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["条目"],
                "summary": "条目列表",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "default": 10, "name": "limit", "in": "query"},
                    {"type": "integer", "default": 0, "name": "offset", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/api.Response"}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["条目"],
                "summary": "新增条目",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/api.EntryRequest"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/api.Response"}}}
            }
        },
        "/budgets/{id}/entries/{entryId}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["条目"],
                "summary": "编辑条目",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "entryId", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/api.EntryRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/api.Response"}}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["条目"],
                "summary": "删除条目",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "entryId", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/api.Response"}}}
            }
        },
        "/budgets/{id}/export/excel": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "tags": ["预算"],
                "summary": "导出 Excel",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "xlsx 文件", "schema": {"type": "file"}}}
            }
        },
        "/budgets/{id}/report/email": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["预算"],
                "summary": "邮件发送报表",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.Response"}},
                    "503": {"description": "邮件服务未启用", "schema": {"$ref": "#/definitions/api.Response"}}
                }
            }
        }
    },
    "definitions": {
        "api.Response": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "message": {"type": "string"},
                "data": {}
            }
        },
        "api.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string", "example": "admin1@example.com"},
                "password": {"type": "string", "minLength": 6, "example": "123456"}
            }
        },
        "api.CreateBudgetRequest": {
            "type": "object",
            "properties": {
                "amount": {"type": "number", "example": 1500},
                "currency": {"type": "integer", "example": 1},
                "usePrevious": {"type": "boolean", "example": false}
            }
        },
        "api.EntryRequest": {
            "type": "object",
            "properties": {
                "type": {"type": "integer", "example": 2},
                "groupType": {"type": "integer", "example": 1},
                "amount": {"type": "number", "example": 12.5},
                "description": {"type": "string", "example": "Groceries"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8200",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "月度预算 API",
	Description:      "按月管理预算：创建预算、记录收支条目、查看统计与导出报表",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
