package converter

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed heatmaps.schema.json
var heatmapsSchema string

// Validator validates heatmap documents against a JSON schema
type Validator struct {
	schema *gojsonschema.Schema
}

// NewValidator compiles the heatmap document schema
func NewValidator() (*Validator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(heatmapsSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile heatmap schema: %w", err)
	}
	return &Validator{schema: schema}, nil
}

// Validate checks a raw heatmap document
func (v *Validator) Validate(document []byte) error {
	if len(document) == 0 {
		return fmt.Errorf("%w: empty document", ErrInvalidDocument)
	}

	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(msgs, "; "))
	}

	return nil
}
