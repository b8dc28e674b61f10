// Package collection implements the link collection of a linkboard session.
//
// A Manager owns the ordered collection and the current selection. Every
// mutation is followed by persistence: the serialized collection is written to
// the store under a fixed key and reflected into the page address.
package collection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/vadimbarashkov/linkboard/internal/database"
	"github.com/vadimbarashkov/linkboard/internal/metadata"
	"github.com/vadimbarashkov/linkboard/internal/models"
)

// DefaultStorageKey is the store key the collection is persisted under.
const DefaultStorageKey = "links"

const copyPrefix = "Copy of "

var (
	// ErrLinkNotFound is returned when an operation targets an id that is not in the collection.
	ErrLinkNotFound = errors.New("link not found")
	// ErrInvalidURL is returned by AddLink for an empty or scheme-less URL.
	ErrInvalidURL = errors.New("invalid url")
	// ErrNotLoaded is returned when the manager is used before Load.
	ErrNotLoaded = errors.New("collection not loaded")
)

// TitleResolver derives a display title from a URL.
type TitleResolver interface {
	ResolveTitle(ctx context.Context, rawURL string) (string, error)
}

// Store persists opaque values under string keys.
type Store interface {
	// Get returns the value under key, or an error wrapping database.ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

type Option func(*Manager)

// WithStorageKey overrides DefaultStorageKey.
func WithStorageKey(key string) Option {
	return func(m *Manager) {
		m.key = key
	}
}

// WithIDGenerator overrides the UUID generator used for new links.
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) {
		m.newID = fn
	}
}

type Manager struct {
	resolver TitleResolver
	store    Store
	logger   *slog.Logger
	key      string
	newID    func() string

	mu       sync.Mutex
	links    []models.Link
	selected string
	page     *url.URL
	address  string
}

func NewManager(resolver TitleResolver, store Store, logger *slog.Logger, opts ...Option) *Manager {
	m := &Manager{
		resolver: resolver,
		store:    store,
		logger:   logger,
		key:      DefaultStorageKey,
		newID:    uuid.NewString,
		links:    []models.Link{},
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Load restores the collection for the page at address.
//
// The links parameter of address takes precedence over the store. When
// neither holds a collection, or the chosen source cannot be parsed, the
// collection starts empty; parse failures are logged, not returned. The last
// link becomes the selection. The loaded collection is persisted right away,
// so a shared address replaces whatever the store held before.
func (m *Manager) Load(ctx context.Context, address string) error {
	const op = "collection.Manager.Load"

	page, err := pageAddress(address)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	data, fromAddress := linksFromAddress(address)
	if !fromAddress {
		data, err = m.store.Get(ctx, m.key)
		switch {
		case errors.Is(err, database.ErrKeyNotFound):
			data = nil
		case err != nil:
			return fmt.Errorf("%s: failed to read stored links: %w", op, err)
		}
	}

	links := []models.Link{}
	if data != nil {
		links, err = Parse(data)
		if err != nil {
			m.logger.Error("failed to parse stored links, starting empty",
				slog.String("op", op),
				slog.Bool("from_address", fromAddress),
				slog.Any("err", err),
			)
			links = []models.Link{}
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.page = page
	m.links = links
	m.selected = ""
	if len(links) > 0 {
		m.selected = links[len(links)-1].ID
	}

	if err := m.persistLocked(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// AddLink resolves the title of rawURL, appends a new link and selects it.
//
// Title resolution runs without holding the state lock, so other operations
// may interleave with it. A resolution failure is not an error: the URL
// itself becomes the title. The returned error reports an invalid URL or a
// failed store write; in the latter case the link is still added.
func (m *Manager) AddLink(ctx context.Context, rawURL string) (models.Link, error) {
	const op = "collection.Manager.AddLink"

	if !isURL(rawURL) {
		return models.Link{}, fmt.Errorf("%s: %w: %q", op, ErrInvalidURL, rawURL)
	}

	title, err := m.resolver.ResolveTitle(ctx, rawURL)
	if err != nil {
		m.logger.Warn("failed to resolve title, using url",
			slog.String("op", op),
			slog.String("url", rawURL),
			slog.Any("err", err),
		)
		title = rawURL
	}
	if title == "" {
		title = metadata.Untitled
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.page == nil {
		return models.Link{}, fmt.Errorf("%s: %w", op, ErrNotLoaded)
	}

	link := models.Link{
		ID:            m.newID(),
		URL:           rawURL,
		Title:         title,
		OriginalTitle: title,
	}

	m.links = append(m.links, link)
	m.selected = link.ID

	if err := m.persistLocked(ctx); err != nil {
		return link, fmt.Errorf("%s: %w", op, err)
	}

	return link, nil
}

// DuplicateLink appends a copy of the link with the given id and selects it.
// The copy keeps URL and OriginalTitle, gets a fresh id and a "Copy of " title.
func (m *Manager) DuplicateLink(ctx context.Context, id string) (models.Link, error) {
	const op = "collection.Manager.DuplicateLink"

	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexLocked(id)
	if i < 0 {
		return models.Link{}, fmt.Errorf("%s: %w: %q", op, ErrLinkNotFound, id)
	}

	src := m.links[i]
	link := models.Link{
		ID:            m.newID(),
		URL:           src.URL,
		Title:         copyPrefix + src.Title,
		OriginalTitle: src.OriginalTitle,
	}

	m.links = append(m.links, link)
	m.selected = link.ID

	if err := m.persistLocked(ctx); err != nil {
		return link, fmt.Errorf("%s: %w", op, err)
	}

	return link, nil
}

// DeleteLink removes the link with the given id, keeping the order of the rest.
// Deleting the selected link selects the new last link, or nothing.
func (m *Manager) DeleteLink(ctx context.Context, id string) error {
	const op = "collection.Manager.DeleteLink"

	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("%s: %w: %q", op, ErrLinkNotFound, id)
	}

	m.links = slices.Delete(m.links, i, i+1)

	if m.selected == id {
		m.selected = ""
		if n := len(m.links); n > 0 {
			m.selected = m.links[n-1].ID
		}
	}

	if err := m.persistLocked(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// SelectLink makes the link with the given id the selection.
func (m *Manager) SelectLink(id string) (models.Link, error) {
	const op = "collection.Manager.SelectLink"

	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexLocked(id)
	if i < 0 {
		return models.Link{}, fmt.Errorf("%s: %w: %q", op, ErrLinkNotFound, id)
	}

	m.selected = id

	return m.links[i], nil
}

// Links returns a copy of the collection in insertion order.
func (m *Manager) Links() []models.Link {
	m.mu.Lock()
	defer m.mu.Unlock()

	return slices.Clone(m.links)
}

// Selected returns the selected link, if any.
func (m *Manager) Selected() (models.Link, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i := m.indexLocked(m.selected); i >= 0 {
		return m.links[i], true
	}

	return models.Link{}, false
}

// ExportAsText renders the collection as "<title>: <url>" lines.
func (m *Manager) ExportAsText() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	lines := make([]string, 0, len(m.links))
	for _, l := range m.links {
		lines = append(lines, l.Title+": "+l.URL)
	}

	return strings.Join(lines, "\n")
}

// ShareableAddress returns the absolute page address with the collection
// embedded in the links query parameter.
func (m *Manager) ShareableAddress() (string, error) {
	const op = "collection.Manager.ShareableAddress"

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.page == nil {
		return "", fmt.Errorf("%s: %w", op, ErrNotLoaded)
	}

	data, err := Serialize(m.links)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return withLinks(m.page, data).String(), nil
}

// Address returns the page address reflected after the last persistence:
// the path with the collection in the links query parameter.
func (m *Manager) Address() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.address
}

func (m *Manager) indexLocked(id string) int {
	if id == "" {
		return -1
	}

	return slices.IndexFunc(m.links, func(l models.Link) bool {
		return l.ID == id
	})
}

// persistLocked writes the collection to the store and reflects it into the
// page address. The address is updated even when the store write fails.
func (m *Manager) persistLocked(ctx context.Context) error {
	data, err := Serialize(m.links)
	if err != nil {
		return err
	}

	m.address = withLinks(m.page, data).RequestURI()

	if err := m.store.Put(ctx, m.key, data); err != nil {
		return fmt.Errorf("failed to persist links: %w", err)
	}

	return nil
}

func isURL(rawURL string) bool {
	if strings.TrimSpace(rawURL) == "" {
		return false
	}

	u, err := url.Parse(rawURL)
	return err == nil && u.Scheme != ""
}
