package httpapi

import (
	"strings"

	santhosh "github.com/santhosh-tekuri/jsonschema/v5"
)

// Request bodies are validated against draft-7 schemas compiled once at
// startup, before any field reaches a service.
func mustCompileSchema(schemaJSON string) *santhosh.Schema {
	compiler := santhosh.NewCompiler()
	compiler.Draft = santhosh.Draft7
	if err := compiler.AddResource("schema.json", strings.NewReader(schemaJSON)); err != nil {
		panic(err)
	}
	return compiler.MustCompile("schema.json")
}

var registerSchema = mustCompileSchema(`{
	"type": "object",
	"required": ["name", "email", "password"],
	"additionalProperties": false,
	"properties": {
		"name":     {"type": "string", "minLength": 1},
		"email":    {"type": "string", "minLength": 3},
		"password": {"type": "string", "minLength": 8}
	}
}`)

var loginSchema = mustCompileSchema(`{
	"type": "object",
	"required": ["email", "password"],
	"additionalProperties": false,
	"properties": {
		"email":    {"type": "string", "minLength": 3},
		"password": {"type": "string", "minLength": 1}
	}
}`)

var restaurantSchema = mustCompileSchema(`{
	"type": "object",
	"required": ["name", "latitude", "longitude", "opening_hour", "closing_hour"],
	"additionalProperties": false,
	"properties": {
		"name":         {"type": "string", "minLength": 1},
		"latitude":     {"type": "number", "minimum": -90, "maximum": 90},
		"longitude":    {"type": "number", "minimum": -180, "maximum": 180},
		"opening_hour": {"type": "integer", "minimum": 0, "maximum": 23},
		"closing_hour": {"type": "integer", "minimum": 0, "maximum": 23},
		"table_count":  {"type": "integer", "minimum": 0}
	}
}`)

var paymentSecretSchema = mustCompileSchema(`{
	"type": "object",
	"required": ["payment_secret"],
	"additionalProperties": false,
	"properties": {
		"payment_secret": {"type": "string", "minLength": 1}
	}
}`)

var menuSchema = mustCompileSchema(`{
	"type": "object",
	"required": ["restaurant_id", "description"],
	"additionalProperties": false,
	"properties": {
		"restaurant_id": {"type": "integer", "minimum": 1},
		"description":   {"type": "string", "minLength": 1}
	}
}`)

var menuSectionSchema = mustCompileSchema(`{
	"type": "object",
	"required": ["menu_id", "name"],
	"additionalProperties": false,
	"properties": {
		"menu_id": {"type": "integer", "minimum": 1},
		"name":    {"type": "string", "minLength": 1}
	}
}`)

var menuItemSchema = mustCompileSchema(`{
	"type": "object",
	"required": ["section_id", "name", "price"],
	"additionalProperties": false,
	"properties": {
		"section_id":  {"type": "integer", "minimum": 1},
		"name":        {"type": "string", "minLength": 1},
		"description": {"type": "string"},
		"photo_link":  {"type": "string"},
		"price":       {"type": "number", "minimum": 0},
		"type":        {"type": "string"}
	}
}`)

var tableSchema = mustCompileSchema(`{
	"type": "object",
	"required": ["restaurant_id", "table_number"],
	"additionalProperties": false,
	"properties": {
		"restaurant_id": {"type": "integer", "minimum": 1},
		"table_number":  {"type": "integer", "minimum": 1},
		"name":          {"type": "string"}
	}
}`)

var apiKeySchema = mustCompileSchema(`{
	"type": "object",
	"required": ["restaurant_id"],
	"additionalProperties": false,
	"properties": {
		"restaurant_id": {"type": "integer", "minimum": 1}
	}
}`)

var orderSchema = mustCompileSchema(`{
	"type": "object",
	"required": ["table_id", "menu_item_ids"],
	"additionalProperties": false,
	"properties": {
		"table_id":      {"type": "integer", "minimum": 1},
		"menu_item_ids": {"type": "array", "minItems": 1, "items": {"type": "integer", "minimum": 1}},
		"comment":       {"type": "string"}
	}
}`)

var ratingSchema = mustCompileSchema(`{
	"type": "object",
	"required": ["restaurant_id", "rating"],
	"additionalProperties": false,
	"properties": {
		"restaurant_id": {"type": "integer", "minimum": 1},
		"rating":        {"type": "integer", "minimum": 1, "maximum": 5},
		"text":          {"type": "string"}
	}
}`)

var checkoutSchema = mustCompileSchema(`{
	"type": "object",
	"required": ["order_id"],
	"additionalProperties": false,
	"properties": {
		"order_id": {"type": "integer", "minimum": 1}
	}
}`)

var uploadURLSchema = mustCompileSchema(`{
	"type": "object",
	"required": ["file_name"],
	"additionalProperties": false,
	"properties": {
		"file_name": {"type": "string", "minLength": 1}
	}
}`)
