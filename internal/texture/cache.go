package texture

import (
	"fmt"
	"image"
	"sync"
)

// Resolver maps an atlas page number to its decoded image.
type Resolver interface {
	Resolve(page int) (*image.NRGBA, error)
}

// Cache decodes each indexed page at most once and shares the result
// between concurrent export jobs. Load failures are cached too.
type Cache struct {
	mu    sync.RWMutex
	pages map[int]pageResult
	index *Index
}

type pageResult struct {
	img *image.NRGBA
	err error
}

// NewCache creates a page cache over index.
func NewCache(index *Index) *Cache {
	return &Cache{
		pages: make(map[int]pageResult),
		index: index,
	}
}

// Resolve returns the decoded page, or why it is unavailable.
func (c *Cache) Resolve(page int) (*image.NRGBA, error) {
	c.mu.RLock()
	res, ok := c.pages[page]
	c.mu.RUnlock()
	if ok {
		return res.img, res.err
	}

	path, found := c.index.ResolvePath(page)
	if !found {
		res.err = fmt.Errorf("texture: page %d: %w", page, ErrPageNotFound)
	} else {
		res.img, res.err = Load(path)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.pages[page]; ok {
		return prev.img, prev.err
	}
	c.pages[page] = res
	return res.img, res.err
}
