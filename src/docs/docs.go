// Package docs registers the swagger documentation of the API
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
                "description": "Returns status OK",
                "produces": ["text/plain"],
                "summary": "Health check route",
                "responses": {"200": {"description": "OK", "schema": {"type": "string"}}}
            }
        },
        "/sources": {
            "get": {
                "description": "Returns the IDs of the configured sources.",
                "produces": ["application/json"],
                "summary": "Get sources",
                "responses": {"200": {"description": "{\"sources\": [\"mangapark-en\"]}", "schema": {"type": "object", "additionalProperties": {"type": "array", "items": {"type": "string"}}}}}
            }
        },
        "/sources/{source}/latest": {
            "get": {
                "description": "Returns a page of the mangas sorted by the last update.",
                "produces": ["application/json"],
                "summary": "Get latest updates",
                "parameters": [
                    {"$ref": "#/parameters/source"},
                    {"$ref": "#/parameters/page"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.MangasPage"}}}
            }
        },
        "/sources/{source}/popular": {
            "get": {
                "description": "Returns a page of the mangas with the most views in the last 7 days.",
                "produces": ["application/json"],
                "summary": "Get popular mangas",
                "parameters": [
                    {"$ref": "#/parameters/source"},
                    {"$ref": "#/parameters/page"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.MangasPage"}}}
            }
        },
        "/sources/{source}/search": {
            "get": {
                "description": "Searches by text, or by ID with a query like \"id:12345\". If the query is empty, browses the catalog using the filters.",
                "produces": ["application/json"],
                "summary": "Search mangas",
                "parameters": [
                    {"$ref": "#/parameters/source"},
                    {"$ref": "#/parameters/page"},
                    {"type": "string", "example": "berserk", "description": "Query", "name": "q", "in": "query"},
                    {"type": "string", "example": "rating", "description": "Sort key", "name": "sort", "in": "query"},
                    {"type": "boolean", "description": "Sort ascending", "name": "ascending", "in": "query"},
                    {"type": "string", "example": "ongoing", "description": "Publication status", "name": "status", "in": "query"},
                    {"type": "integer", "description": "Minimum number of chapters", "name": "min_chapters", "in": "query"},
                    {"type": "integer", "description": "Maximum number of chapters", "name": "max_chapters", "in": "query"},
                    {"type": "string", "example": "action,manhwa", "description": "Comma-separated tags to include", "name": "include", "in": "query"},
                    {"type": "string", "example": "gore", "description": "Comma-separated tags to exclude", "name": "exclude", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.MangasPage"}}}
            }
        },
        "/sources/{source}/filters": {
            "get": {
                "description": "Returns the filters the search route understands when the query is empty.",
                "produces": ["application/json"],
                "summary": "Get filters",
                "parameters": [{"$ref": "#/parameters/source"}],
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}
            }
        },
        "/sources/{source}/manga": {
            "get": {
                "description": "Returns the metadata of a manga.",
                "produces": ["application/json"],
                "summary": "Get manga",
                "parameters": [
                    {"$ref": "#/parameters/source"},
                    {"type": "string", "example": "/comic/73/berserk", "description": "Manga URL", "name": "url", "in": "query", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/manga.Manga"}}}
            }
        },
        "/sources/{source}/cover": {
            "get": {
                "description": "Returns the cover image of a manga, resized if possible.",
                "produces": ["image/jpeg", "image/png"],
                "summary": "Get manga cover",
                "parameters": [
                    {"$ref": "#/parameters/source"},
                    {"type": "string", "example": "/comic/73/berserk", "description": "Manga URL", "name": "url", "in": "query", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "file"}}}
            }
        },
        "/sources/{source}/chapters": {
            "get": {
                "description": "Returns all chapters of a manga.",
                "produces": ["application/json"],
                "summary": "Get manga chapters",
                "parameters": [
                    {"$ref": "#/parameters/source"},
                    {"type": "string", "example": "/comic/73/berserk", "description": "Manga URL", "name": "url", "in": "query", "required": true}
                ],
                "responses": {"200": {"description": "{\"chapters\": [chapterObj]}", "schema": {"type": "object", "additionalProperties": {"type": "array", "items": {"$ref": "#/definitions/manga.Chapter"}}}}}
            }
        },
        "/sources/{source}/pages": {
            "get": {
                "description": "Returns the image URLs of a chapter, in reading order.",
                "produces": ["application/json"],
                "summary": "Get chapter pages",
                "parameters": [
                    {"$ref": "#/parameters/source"},
                    {"type": "string", "example": "/comic/73/berserk/c375-en/375", "description": "Chapter URL", "name": "url", "in": "query", "required": true}
                ],
                "responses": {"200": {"description": "{\"pages\": [pageObj]}", "schema": {"type": "object", "additionalProperties": {"type": "array", "items": {"$ref": "#/definitions/manga.Page"}}}}}
            }
        }
    },
    "parameters": {
        "source": {"type": "string", "example": "mangapark-en", "description": "Source ID", "name": "source", "in": "path", "required": true},
        "page": {"type": "integer", "example": 1, "description": "Page, starting at 1", "name": "page", "in": "query"}
    },
    "definitions": {
        "manga.ListingEntry": {
            "type": "object",
            "properties": {
                "url": {"type": "string"},
                "title": {"type": "string"},
                "thumbnail_url": {"type": "string"},
                "author": {"type": "string"},
                "genres": {"type": "array", "items": {"type": "string"}}
            }
        },
        "models.MangasPage": {
            "type": "object",
            "properties": {
                "mangas": {"type": "array", "items": {"$ref": "#/definitions/manga.ListingEntry"}},
                "has_next_page": {"type": "boolean"}
            }
        },
        "manga.Manga": {
            "type": "object",
            "properties": {
                "source": {"type": "string"},
                "url": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "author": {"type": "string"},
                "status": {"type": "string", "enum": ["UNKNOWN", "ONGOING", "COMPLETED"]},
                "thumbnail_url": {"type": "string"},
                "genres": {"type": "array", "items": {"type": "string"}}
            }
        },
        "manga.Chapter": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "number": {"type": "number"},
                "url": {"type": "string"},
                "uploaded_at": {"type": "integer", "description": "Unix milliseconds, 0 when unknown"}
            }
        },
        "manga.Page": {
            "type": "object",
            "properties": {
                "index": {"type": "integer"},
                "image_url": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "MangaPark Adapter API",
	Description:      "Browse, search and read mangas from MangaPark.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
