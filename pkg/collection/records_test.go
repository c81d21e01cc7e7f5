package collection_test

import (
	"testing"

	"github.com/aretw0/scout/pkg/collection"
	"github.com/aretw0/scout/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRecords(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"array", `[{"a":1},{"a":2}]`, 2},
		{"single object", `{"a":1}`, 1},
		{"ndjson", "{\"a\":1}\n{\"a\":2}\n\n{\"a\":3}\n", 3},
		{"empty array", `[]`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := collection.DecodeRecords([]byte(tt.body))
			require.NoError(t, err)
			assert.Len(t, records, tt.want)
		})
	}
}

func TestDecodeRecords_Errors(t *testing.T) {
	_, err := collection.DecodeRecords([]byte("   "))
	assert.ErrorIs(t, err, domain.ErrEmptySnapshot)

	_, err = collection.DecodeRecords([]byte(`[{"a":`))
	assert.ErrorContains(t, err, "malformed snapshot")
}

func TestRecordAccessors(t *testing.T) {
	r := collection.Record{
		"name":      "",
		"title":     "Acme",
		"id":        float64(1441),
		"followers": float64(12),
		"tags":      []any{"cloud", "", "ai"},
		"industry":  "Software",
	}

	assert.Equal(t, "Acme", r.String("name", "title"))
	assert.Equal(t, "1441", r.String("id"))
	assert.Equal(t, 12, r.Int("missing", "followers"))
	assert.Equal(t, []string{"cloud", "ai"}, r.Strings("tags"))
	assert.Equal(t, []string{"Software"}, r.Strings("industries", "industry"))
	assert.Nil(t, r.Strings("missing"))
}
