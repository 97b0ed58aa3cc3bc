package model

import (
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// projectShapeSchema is the minimal shape a persisted project must have to
// be kept on load. Everything else is defaulted by Normalize.
const projectShapeSchema = `{
	"type": "object",
	"required": ["id", "title"],
	"properties": {
		"id":    {"type": "number"},
		"title": {"type": "string"}
	}
}`

var projectShape = jsonschema.MustCompileString("project-shape.json", projectShapeSchema)

// IsValidProject reports whether x, a value decoded from JSON, is an object
// with a numeric id and a string title.
func IsValidProject(x any) (ok bool) {
	if x == nil {
		return false
	}
	// The validator panics on Go types that encoding/json never produces.
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return projectShape.Validate(x) == nil
}

// ShapeError explains why x failed IsValidProject, or returns nil.
func ShapeError(x any) error {
	return projectShape.Validate(x)
}
