package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImageCacheGetSet(t *testing.T) {
	c := NewImageCache()

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("url", "data:image/png;base64,AAAA")
	got, ok := c.Get("url")
	assert.True(t, ok)
	assert.Equal(t, "data:image/png;base64,AAAA", got)
}

func TestImageCacheConcurrentAccess(t *testing.T) {
	c := NewImageCache()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("url-%d", n%4)
			c.Set(key, key)
			if v, ok := c.Get(key); ok {
				assert.Equal(t, key, v)
			}
		}(i)
	}
	wg.Wait()
}
