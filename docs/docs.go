// Package docs регистрирует OpenAPI описание Geo Lookup Proxy для /swagger/*.
// Сгенерировано по аннотациям godoc в internal/delivery/http.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/geo": {
            "get": {
                "description": "Проксирует запрос в GeoNames по параметру action и возвращает тело ответа без изменений. Этот же обработчик доступен по /fetch.php для старых клиентов.",
                "produces": ["application/json"],
                "tags": ["Geo"],
                "summary": "Lookup by action",
                "parameters": [
                    {"type": "string", "description": "getCountries | getGovernorates | getJudiciaries", "name": "action", "in": "query", "required": true},
                    {"type": "string", "description": "geonameId страны (для getGovernorates)", "name": "countryId", "in": "query"},
                    {"type": "string", "description": "geonameId региона (для getJudiciaries)", "name": "regionId", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Ответ GeoNames как есть", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "502": {"description": "{\"error\":\"Unable to fetch data\"}", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/geo/countries": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Geo"],
                "summary": "List countries",
                "responses": {
                    "200": {"description": "countryInfoJSON как есть", "schema": {"type": "object"}},
                    "502": {"description": "Bad Gateway", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/geo/countries/{countryId}/governorates": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Geo"],
                "summary": "List governorates of a country",
                "parameters": [
                    {"type": "string", "description": "geonameId страны", "name": "countryId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "childrenJSON как есть", "schema": {"type": "object"}},
                    "502": {"description": "Bad Gateway", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/geo/regions/{regionId}/judiciaries": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Geo"],
                "summary": "List judiciaries of a governorate",
                "parameters": [
                    {"type": "string", "description": "geonameId региона", "name": "regionId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "childrenJSON как есть", "schema": {"type": "object"}},
                    "502": {"description": "Bad Gateway", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/dto.HealthResponse"}}
                }
            }
        },
        "/api/v1/stats": {
            "get": {
                "description": "Счётчики запросов по action и итогу (success, upstream_error, invalid_request)",
                "produces": ["application/json"],
                "tags": ["Statistics"],
                "summary": "Lookup statistics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.HealthResponse": {
            "type": "object",
            "properties": {
                "redis": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "errors.AppError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "details": {"type": "object", "additionalProperties": true},
                "message": {"type": "string"}
            }
        },
        "utils.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/errors.AppError"}
            }
        },
        "utils.SuccessResponse": {
            "type": "object",
            "properties": {
                "data": {}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Geo Lookup Proxy API",
	Description:      "Прокси к GeoNames: страны, губернаторства (ADM1) и округа (ADM2). Ответ upstream возвращается без изменений.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
