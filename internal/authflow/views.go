package authflow

import (
	"fmt"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Views tracks the open credential form views, one controller per view ID.
// The least recently used view is closed when the limit is reached.
type Views struct {
	cache   *lru.Cache[string, *Controller]
	factory func() *Controller
}

// NewViews creates a registry holding at most size views
func NewViews(size int, factory func() *Controller) (*Views, error) {
	cache, err := lru.NewWithEvict(size, func(_ string, c *Controller) {
		c.Close()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create view cache: %w", err)
	}

	return &Views{
		cache:   cache,
		factory: factory,
	}, nil
}

// Open creates a new view and returns its ID
func (v *Views) Open() (string, *Controller) {
	id := uuid.NewString()
	c := v.factory()
	v.cache.Add(id, c)
	return id, c
}

// Get returns the controller of an open view
func (v *Views) Get(id string) (*Controller, bool) {
	if id == "" {
		return nil, false
	}
	return v.cache.Get(id)
}

// Close removes a view and drops any response still in flight for it
func (v *Views) Close(id string) {
	c, ok := v.cache.Peek(id)
	if !ok {
		return
	}
	v.cache.Remove(id)
	c.Close()
}

// Len returns the number of open views
func (v *Views) Len() int {
	return v.cache.Len()
}
