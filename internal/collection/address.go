package collection

import (
	"fmt"
	"net/url"
)

// LinksParam is the query parameter carrying the serialized collection.
const LinksParam = "links"

// pageAddress strips the query and fragment from a page address.
func pageAddress(address string) (*url.URL, error) {
	const op = "collection.pageAddress"

	u, err := url.Parse(address)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse page address: %w", op, err)
	}

	page := *u
	page.RawQuery = ""
	page.ForceQuery = false
	page.Fragment = ""
	page.RawFragment = ""

	return &page, nil
}

// linksFromAddress returns the raw value of the links parameter, if set and non-empty.
func linksFromAddress(address string) ([]byte, bool) {
	u, err := url.Parse(address)
	if err != nil {
		return nil, false
	}

	v := u.Query().Get(LinksParam)
	if v == "" {
		return nil, false
	}

	return []byte(v), true
}

// withLinks returns a copy of page carrying data in the links parameter.
// Any other query parameters are dropped.
func withLinks(page *url.URL, data []byte) *url.URL {
	u := *page
	u.RawQuery = url.Values{LinksParam: {string(data)}}.Encode()
	return &u
}
