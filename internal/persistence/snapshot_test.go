package persistence

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fixtures "github.com/gcbaptista/record-search/internal/testing"
)

func TestLoadSnapshot_JSON(t *testing.T) {
	items := fixtures.CatalogItems()
	path := fixtures.WriteSnapshot(t, items)

	loaded, err := LoadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, items, loaded)
}

func TestLoadSnapshot_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.yml")
	doc := `
- id: 1
  name: Paracetamol 500
  identifiers: [Paracetamol]
  tags: [Fever]
  brand: Acme
  price: 10
  form: tablet
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	loaded, err := LoadSnapshot(path)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "Paracetamol 500", loaded[0].Name)
	assert.Equal(t, []string{"Fever"}, loaded[0].Tags)
	assert.Equal(t, 10.0, loaded[0].Price)
}

func TestLoadSnapshot_Errors(t *testing.T) {
	_, err := LoadSnapshot(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"id": 1}`), 0o600))
	_, err = LoadSnapshot(bad)
	assert.Error(t, err, "a snapshot must be an array")
}

func TestReadSnapshot(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		format  Format
		want    int
		wantErr bool
	}{
		{name: "empty json document", input: "", format: FormatJSON, want: 0},
		{name: "empty json array", input: "[]", format: FormatJSON, want: 0},
		{name: "empty yaml document", input: "", format: FormatYAML, want: 0},
		{name: "two json items", input: `[{"id":1,"name":"a","brand":"b"},{"id":2,"name":"c","brand":"d"}]`, format: FormatJSON, want: 2},
		{name: "unknown format", input: "[]", format: Format("csv"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := ReadSnapshot(strings.NewReader(tt.input), tt.format)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, items)
			assert.Len(t, items, tt.want)
		})
	}
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatFor("items.yaml"))
	assert.Equal(t, FormatYAML, FormatFor("ITEMS.YML"))
	assert.Equal(t, FormatJSON, FormatFor("items.json"))
	assert.Equal(t, FormatJSON, FormatFor("items"))
}
