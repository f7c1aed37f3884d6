// Package media holds uploaded files in memory behind ephemeral object URLs.
package media

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/user/tubevibes/internal/model"
)

// DefaultPrefix is used when no URL prefix is configured
const DefaultPrefix = "/media"

// ErrTooLarge is returned when a source exceeds the registry size limit
var ErrTooLarge = errors.New("media exceeds upload limit")

// Object is a registered media file
type Object struct {
	Token       string
	Name        string
	ContentType string
	Data        []byte
	CreatedAt   time.Time
}

// Entry describes a registered object without its bytes
type Entry struct {
	URL       string
	CreatedAt time.Time
}

// Registry maps object URLs to in-memory media. Nothing survives a restart.
type Registry struct {
	mu       sync.RWMutex
	objects  map[string]*Object
	prefix   string
	maxBytes int64
	now      func() time.Time
}

// NormalizePrefix returns prefix as an absolute path without a trailing slash.
// An empty prefix falls back to DefaultPrefix.
func NormalizePrefix(prefix string) string {
	trimmed := strings.Trim(strings.TrimSpace(prefix), "/")
	if trimmed == "" {
		return DefaultPrefix
	}
	return "/" + trimmed
}

// NewRegistry creates a registry minting URLs under prefix (e.g. "/media").
// maxBytes <= 0 disables the size check.
func NewRegistry(prefix string, maxBytes int64) *Registry {
	return &Registry{
		objects:  make(map[string]*Object),
		prefix:   NormalizePrefix(prefix),
		maxBytes: maxBytes,
		now:      time.Now,
	}
}

// Register stores src and returns its object URL
func (r *Registry) Register(src model.MediaSource) (string, error) {
	if r.maxBytes > 0 && int64(len(src.Data)) > r.maxBytes {
		return "", fmt.Errorf("failed to register %q (%d bytes): %w", src.Name, len(src.Data), ErrTooLarge)
	}

	obj := &Object{
		Token:       uuid.NewString(),
		Name:        src.Name,
		ContentType: src.ContentType,
		Data:        src.Data,
		CreatedAt:   r.now(),
	}

	r.mu.Lock()
	r.objects[obj.Token] = obj
	r.mu.Unlock()

	return r.URL(obj.Token), nil
}

// CreateObjectURL returns src.URL when set, otherwise registers the bytes
func (r *Registry) CreateObjectURL(src model.MediaSource) (string, error) {
	if src.URL != "" {
		return src.URL, nil
	}
	return r.Register(src)
}

// Prefix returns the normalized path objects are served under
func (r *Registry) Prefix() string {
	return r.prefix
}

// URL returns the object URL for token
func (r *Registry) URL(token string) string {
	return r.prefix + "/" + token
}

// Token extracts the token from an object URL minted by this registry
func (r *Registry) Token(url string) (string, bool) {
	token, ok := strings.CutPrefix(url, r.prefix+"/")
	if !ok || token == "" || strings.Contains(token, "/") {
		return "", false
	}
	return token, true
}

// Open returns the object registered under token
func (r *Registry) Open(token string) (*Object, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	obj, ok := r.objects[token]
	return obj, ok
}

// Revoke releases the object behind url and reports whether it existed
func (r *Registry) Revoke(url string) bool {
	token, ok := r.Token(url)
	if !ok {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.objects[token]; !exists {
		return false
	}
	delete(r.objects, token)
	return true
}

// Entries lists every registered object URL
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, 0, len(r.objects))
	for token, obj := range r.objects {
		out = append(out, Entry{URL: r.URL(token), CreatedAt: obj.CreatedAt})
	}
	return out
}

// Len returns the number of registered objects
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.objects)
}
