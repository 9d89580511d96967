package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testSchema() JSONSchema {
	return JSONSchema{
		Type:     "object",
		Required: []string{"customer_id", "txn_id"},
		Properties: map[string]Property{
			"customer_id": {Type: "string", MinLength: IntPtr(1)},
			"txn_id":      {Type: "string", MinLength: IntPtr(1)},
			"status":      {Type: "string"},
		},
	}
}

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name  string
		input map[string]interface{}
		valid bool
	}{
		{
			name:  "all required present",
			input: map[string]interface{}{"customer_id": "c1", "txn_id": "t1", "status": "completed"},
			valid: true,
		},
		{
			name:  "optional field absent",
			input: map[string]interface{}{"customer_id": "c1", "txn_id": "t1"},
			valid: true,
		},
		{
			name:  "unknown fields tolerated",
			input: map[string]interface{}{"customer_id": "c1", "txn_id": "t1", "extra": 42},
			valid: true,
		},
		{
			name:  "missing required field",
			input: map[string]interface{}{"customer_id": "c1"},
			valid: false,
		},
		{
			name:  "empty required field",
			input: map[string]interface{}{"customer_id": "c1", "txn_id": ""},
			valid: false,
		},
		{
			name:  "wrong type",
			input: map[string]interface{}{"customer_id": 7, "txn_id": "t1"},
			valid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateInput(tt.input, testSchema())
			assert.Equal(t, tt.valid, result.Valid)
			if !tt.valid {
				assert.NotEmpty(t, result.Errors)
			}
		})
	}
}
