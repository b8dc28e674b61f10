package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadimbarashkov/linkboard/internal/models"
)

func TestSerialize(t *testing.T) {
	t.Run("nil collection", func(t *testing.T) {
		data, err := Serialize(nil)

		assert.NoError(t, err)
		assert.Equal(t, `[]`, string(data))
	})

	t.Run("field names", func(t *testing.T) {
		data, err := Serialize([]models.Link{
			{ID: "1", URL: "https://example.com", Title: "Copy of Example", OriginalTitle: "Example"},
		})

		assert.NoError(t, err)
		assert.JSONEq(t, `[{"id":"1","url":"https://example.com","title":"Copy of Example","originalTitle":"Example"}]`, string(data))
	})
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    []models.Link
		wantErr error
	}{
		{
			name: "empty array",
			data: `[]`,
			want: []models.Link{},
		},
		{
			name: "null",
			data: `null`,
			want: []models.Link{},
		},
		{
			name: "links",
			data: `[{"id":"1","url":"https://a.example","title":"A","originalTitle":"A"},{"id":"2","url":"https://b.example","title":"B","originalTitle":"B0"}]`,
			want: []models.Link{
				{ID: "1", URL: "https://a.example", Title: "A", OriginalTitle: "A"},
				{ID: "2", URL: "https://b.example", Title: "B", OriginalTitle: "B0"},
			},
		},
		{
			name:    "duplicate ids",
			data:    `[{"id":"1"},{"id":"1"}]`,
			wantErr: ErrDuplicateID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.data))

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("malformed", func(t *testing.T) {
		for _, data := range []string{``, `{`, `{"id":"1"}`, `[1,2]`} {
			got, err := Parse([]byte(data))

			assert.Error(t, err, data)
			assert.Nil(t, got, data)
		}
	})
}

func TestSerializeParse_RoundTrip(t *testing.T) {
	links := []models.Link{
		{ID: "b", URL: "https://example.com/?q=1&r=2", Title: `Quotes "and" <tags>`, OriginalTitle: "orig"},
		{ID: "a", URL: "https://example.org/path#frag", Title: "Ünïcödé ✓", OriginalTitle: "Ünïcödé ✓"},
		{ID: "c", URL: "https://example.net", Title: "Copy of Copy of X", OriginalTitle: "X"},
	}

	data, err := Serialize(links)
	require.NoError(t, err)

	got, err := Parse(data)

	assert.NoError(t, err)
	assert.Equal(t, links, got)
}
