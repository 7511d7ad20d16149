package store

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/vedantlahane/myblog-sub000/internal/domain"
	"github.com/vedantlahane/myblog-sub000/internal/util"
)

// Key prefixes for each entity type.
const (
	prefixUser         = "user:"
	prefixPost         = "post:"
	prefixTag          = "tag:"
	prefixDraft        = "draft:"
	prefixComment      = "comment:"
	prefixNotification = "notif:"
)

// EventEmitter is the interface for emitting SSE events.
// Store uses this to broadcast changes without depending on SSE implementation details.
type EventEmitter interface {
	Emit(event any)
}

// NoopEmitter is a no-op implementation of EventEmitter for testing.
type NoopEmitter struct{}

// Emit implements EventEmitter.Emit as a no-op.
func (NoopEmitter) Emit(_ any) {}

// NewNoopEmitter creates a new no-op emitter for testing.
func NewNoopEmitter() EventEmitter {
	return NoopEmitter{}
}

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	// SSE event emitter for broadcasting changes.
	eventEmitter EventEmitter

	// Generic entities
	Users         *Entity[domain.User]
	Posts         *Entity[domain.Post]
	Tags          *Entity[domain.Tag]
	Drafts        *Entity[domain.Draft]
	Comments      *Entity[domain.Comment]
	Notifications *Entity[domain.Notification]
}

// New creates a new Store instance with the given database path and event emitter.
// The emitter is required and used to broadcast store changes via SSE.
func New(path string, logger *slog.Logger, emitter EventEmitter) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	store := &Store{
		db:           db,
		logger:       logger,
		eventEmitter: emitter,
	}

	// Initialize generic entities
	store.initUsers()
	store.initPosts()
	store.initTags()
	store.initDrafts()
	store.initComments()
	store.initNotifications()

	if logger != nil {
		logger.Info("Badger database opened successfully", "path", path)
	}

	return store, nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("Closing database connection")
	}
	return s.db.Close()
}

// initUsers initializes the Users entity on the store.
// Uses case-insensitive email indexing via normalizeEmail transformation.
func (s *Store) initUsers() {
	s.Users = NewEntity[domain.User](s, prefixUser).
		WithUniqueIndexTransform("email",
			func(u *domain.User) []string {
				return []string{normalizeEmail(u.Email)}
			},
			normalizeEmail, // Transform lookups to be case-insensitive
		).
		WithUniqueIndex("refresh", func(u *domain.User) []string {
			if u.RefreshTokenHash == "" {
				return nil
			}
			return []string{u.RefreshTokenHash}
		})
}

// initPosts initializes the Posts entity on the store.
// Slug is unique by construction (title + creation timestamp); author and tag
// indexes are non-unique for listing queries.
func (s *Store) initPosts() {
	s.Posts = NewEntity[domain.Post](s, prefixPost).
		WithUniqueIndex("slug", func(p *domain.Post) []string {
			return []string{p.Slug}
		}).
		WithIndex("author", func(p *domain.Post) []string {
			return []string{p.AuthorID}
		}).
		WithIndex("tag", func(p *domain.Post) []string {
			return p.TagIDs
		})
}

// initTags initializes the Tags entity on the store.
// Name uniqueness is case-insensitive: the index stores the normalized slug form.
func (s *Store) initTags() {
	s.Tags = NewEntity[domain.Tag](s, prefixTag).
		WithUniqueIndexTransform("name",
			func(t *domain.Tag) []string {
				return []string{util.NormalizeTagSlug(t.Name)}
			},
			util.NormalizeTagSlug,
		).
		WithUniqueIndex("slug", func(t *domain.Tag) []string {
			return []string{t.Slug}
		})
}

// initDrafts initializes the Drafts entity on the store.
// The lineage index groups drafts by the post they revise, or by author for
// drafts of not-yet-published posts; version numbers are assigned per lineage.
func (s *Store) initDrafts() {
	s.Drafts = NewEntity[domain.Draft](s, prefixDraft).
		WithIndex("lineage", func(d *domain.Draft) []string {
			return []string{d.LineageKey()}
		}).
		WithIndex("author", func(d *domain.Draft) []string {
			return []string{d.AuthorID}
		})
}

// initComments initializes the Comments entity on the store.
func (s *Store) initComments() {
	s.Comments = NewEntity[domain.Comment](s, prefixComment).
		WithIndex("post", func(c *domain.Comment) []string {
			return []string{c.PostID}
		}).
		WithIndex("parent", func(c *domain.Comment) []string {
			if c.ParentID == "" {
				return nil
			}
			return []string{c.ParentID}
		})
}

// initNotifications initializes the Notifications entity on the store.
func (s *Store) initNotifications() {
	s.Notifications = NewEntity[domain.Notification](s, prefixNotification).
		WithIndex("recipient", func(n *domain.Notification) []string {
			return []string{n.RecipientID}
		})
}

// emit broadcasts an event if an emitter is configured.
func (s *Store) emit(event any) {
	if s.eventEmitter != nil {
		s.eventEmitter.Emit(event)
	}
}

// normalizeEmail lowercases and trims an email address for index storage.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
