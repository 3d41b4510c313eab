package database

import (
	"time"

	"github.com/bradfitz/gomemcache/memcache"
)

// NewMemcached returns nil when server is empty; the translation cache is
// optional.
func NewMemcached(server string) *memcache.Client {
	if server == "" {
		return nil
	}
	client := memcache.New(server)
	client.Timeout = 500 * time.Millisecond
	return client
}
