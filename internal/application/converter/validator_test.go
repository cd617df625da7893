package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	assert.NoError(t, v.Validate([]byte(`{"heatmaps":[{"labels":["db","t","i"],"values":[[1,2]]}]}`)))
	assert.NoError(t, v.Validate([]byte(`{"heatmaps":[{"values":[[0.5]]}],"extra":true}`)))

	for _, doc := range []string{
		``,
		`[]`,
		`{"heatmaps":{}}`,
		`{"heatmaps":[{"labels":["a","b","c","d"],"values":[[1]]}]}`,
		`{"heatmaps":[{"labels":[1],"values":[[1]]}]}`,
		`{"heatmaps":[{"values":[]}]}`,
		`{"heatmaps":[{"values":[[null]]}]}`,
	} {
		err := v.Validate([]byte(doc))
		assert.ErrorIs(t, err, ErrInvalidDocument, doc)
	}
}
