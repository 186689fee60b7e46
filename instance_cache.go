package injectable

import (
	gocache "github.com/patrickmn/go-cache"
)

// instanceCache holds resolved singletons by definition id. Entries never
// expire; they live until the container is disposed.
type instanceCache struct {
	data  *gocache.Cache
	order []string
}

func newInstanceCache() *instanceCache {
	return &instanceCache{
		data: gocache.New(gocache.NoExpiration, 0),
	}
}

func (c *instanceCache) Load(id string) (any, bool) {
	return c.data.Get(id)
}

func (c *instanceCache) Store(id string, value any) {
	if _, found := c.data.Get(id); !found {
		c.order = append(c.order, id)
	}
	c.data.Set(id, value, gocache.NoExpiration)
}

func (c *instanceCache) Has(id string) bool {
	_, found := c.data.Get(id)
	return found
}

// IDs returns cached ids in the order they were first stored.
func (c *instanceCache) IDs() []string {
	return append([]string(nil), c.order...)
}

func (c *instanceCache) Clear() {
	c.data.Flush()
	c.order = nil
}
