package lib

import (
	"context"
	"encoding/json"

	"github.com/qri-io/jsonschema"
)

// ValidateJSON validates a JSON raw message against a given JSON schema.
// It returns a list of validation errors if the JSON is invalid.
func ValidateJSON(content json.RawMessage, schemaString string) ([]jsonschema.KeyError, error) {
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(schemaString), rs); err != nil {
		return nil, err
	}

	return rs.ValidateBytes(context.Background(), content)
}

// CreateRequestSchema is the schema every create-post request must satisfy
// before any optimistic state mutation happens.
func CreateRequestSchema() string {
	return `{
		"type": "object",
		"properties": {
			"body": {"type": "string", "minLength": 1},
			"category": {"type": "string"},
			"tagIds": {"type": "array", "items": {"type": "string"}},
			"locationId": {"type": "string", "minLength": 1}
		},
		"required": ["body", "locationId"]
	}`
}
