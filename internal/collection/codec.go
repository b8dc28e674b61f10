package collection

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vadimbarashkov/linkboard/internal/models"
)

// ErrDuplicateID is returned by Parse when two links share an id.
var ErrDuplicateID = errors.New("duplicate link id")

// Serialize encodes links into the persisted and shareable JSON form.
// A nil slice is encoded as an empty array.
func Serialize(links []models.Link) ([]byte, error) {
	const op = "collection.Serialize"

	if links == nil {
		links = []models.Link{}
	}

	data, err := json.Marshal(links)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to encode links: %w", op, err)
	}

	return data, nil
}

// Parse decodes the JSON form produced by Serialize. JSON null decodes to an
// empty collection.
func Parse(data []byte) ([]models.Link, error) {
	const op = "collection.Parse"

	var links []models.Link
	if err := json.Unmarshal(data, &links); err != nil {
		return nil, fmt.Errorf("%s: failed to decode links: %w", op, err)
	}

	seen := make(map[string]struct{}, len(links))
	for _, l := range links {
		if _, ok := seen[l.ID]; ok {
			return nil, fmt.Errorf("%s: %w: %q", op, ErrDuplicateID, l.ID)
		}
		seen[l.ID] = struct{}{}
	}

	if links == nil {
		links = []models.Link{}
	}

	return links, nil
}
