// Package cache fronts public avatar reads with the shared key/value cache.
package cache

import (
	"encoding/base64"
	"time"

	"github.com/umakantv/go-utils/cache"
)

const avatarKeyPrefix = "avatar:"

// AvatarCache caches normalised avatar bytes per user id.
// Values are stored base64 encoded so they survive backends that serialise
// to JSON. A nil *AvatarCache is a valid, always-missing cache.
type AvatarCache struct {
	backend cache.Cache
	ttl     time.Duration
}

func NewAvatarCache(backend cache.Cache, ttl time.Duration) *AvatarCache {
	if backend == nil {
		return nil
	}
	return &AvatarCache{backend: backend, ttl: ttl}
}

func (c *AvatarCache) Get(userID string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	cached, err := c.backend.Get(avatarKeyPrefix + userID)
	if err != nil {
		return nil, false
	}
	return decodeCached(cached)
}

func (c *AvatarCache) Set(userID string, png []byte) {
	if c == nil || len(png) == 0 {
		return
	}
	c.backend.Set(avatarKeyPrefix+userID, base64.StdEncoding.EncodeToString(png), c.ttl)
}

func (c *AvatarCache) Delete(userID string) {
	if c == nil {
		return
	}
	c.backend.Delete(avatarKeyPrefix + userID)
}

// decodeCached accepts whatever shape the backend hands back for a stored string
func decodeCached(v interface{}) ([]byte, bool) {
	var s string
	switch val := v.(type) {
	case string:
		s = val
	case []byte:
		s = string(val)
	default:
		return nil, false
	}

	png, err := base64.StdEncoding.DecodeString(s)
	if err != nil || len(png) == 0 {
		return nil, false
	}
	return png, true
}
