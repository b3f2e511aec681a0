// Package docs Accessibility Microservice API.
//
// Оценка доступности городских объектов общественным транспортом.
// Регенерация: swag init -g cmd/api/main.go -o docs --outputTypes go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Состояние сервиса и зависимостей",
                "responses": {
                    "200": {"description": "OK"},
                    "503": {"description": "Зависимость недоступна"}
                }
            }
        },
        "/api/v1/refresh": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Refresh"],
                "summary": "Запустить цикл обновления",
                "parameters": [
                    {
                        "description": "Изменения параметров",
                        "name": "request",
                        "in": "body",
                        "schema": {"$ref": "#/definitions/dto.ParametersRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/parameters": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Parameters"],
                "summary": "Текущие параметры поездки",
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Parameters"],
                "summary": "Изменить параметры поездки",
                "parameters": [
                    {
                        "description": "Изменения параметров",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.ParametersRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/state": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Refresh"],
                "summary": "Состояние контроллера обновления",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/scores": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Refresh"],
                "summary": "Последние оценки доступности",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/legend": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Refresh"],
                "summary": "Легенда поверхности",
                "parameters": [
                    {"type": "integer", "default": 10, "description": "Количество ступеней градиента", "name": "stops", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/populations": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Populations"],
                "summary": "Список категорий и состояние их загрузки",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/populations/{key}.geojson": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Populations"],
                "summary": "Слой категории в GeoJSON",
                "parameters": [
                    {"type": "string", "description": "Ключ категории", "name": "key", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "GeoJSON FeatureCollection"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/populations/{key}/retry": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Populations"],
                "summary": "Повторить загрузку категории",
                "parameters": [
                    {"type": "string", "description": "Ключ категории", "name": "key", "in": "path", "required": true}
                ],
                "responses": {
                    "202": {"description": "Accepted"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/history": {
            "get": {
                "produces": ["application/json"],
                "tags": ["History"],
                "summary": "История обновлений",
                "parameters": [
                    {"type": "integer", "default": 20, "description": "Количество записей", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.Point": {
            "type": "object",
            "properties": {
                "lat": {"type": "number"},
                "lon": {"type": "number"}
            }
        },
        "dto.ParametersRequest": {
            "type": "object",
            "properties": {
                "origin": {"$ref": "#/definitions/dto.Point"},
                "metric_type": {"type": "string", "enum": ["TRAVEL_TIME", "BOARDINGS", "WALK_DISTANCE"]},
                "max_walk_distance": {"type": "number"},
                "max_time_sec": {"type": "integer"},
                "router_id": {"type": "string"},
                "modes": {"type": "string"},
                "walk_speed": {"type": "number"},
                "departure_time": {"type": "string", "format": "date-time"}
            }
        },
        "errors.AppError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "details": {"type": "object", "additionalProperties": true}
            }
        },
        "utils.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/errors.AppError"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Accessibility Microservice API",
	Description:      "Оценка доступности городских объектов общественным транспортом.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
