package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"max.ks1230/spendwise/internal/logger"
)

type config interface {
	Hosts() []string
}

// MemcacheClient shares the tip cache across instances. Lookup keys
// are free-form prompt text, so they are hashed into memcache-safe
// keys here.
type MemcacheClient struct {
	client *memcache.Client
}

func NewMemcache(config config) (*MemcacheClient, error) {
	logger.Info("memcached hosts", zap.Strings("hosts", config.Hosts()))
	mc := memcache.New(config.Hosts()...)
	return &MemcacheClient{mc}, mc.Ping()
}

func formatKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return "tip:" + hex.EncodeToString(sum[:])
}

func (mc *MemcacheClient) Get(key string) (string, bool) {
	item, err := mc.client.Get(formatKey(key))
	if err != nil {
		if !errors.Is(err, memcache.ErrCacheMiss) {
			logger.Warn("memcache get failed", zap.Error(err))
		}
		return "", false
	}
	return string(item.Value), true
}

func (mc *MemcacheClient) Set(key, value string, ttl time.Duration) {
	err := mc.client.Set(&memcache.Item{
		Key:        formatKey(key),
		Value:      []byte(value),
		Expiration: int32(ttl / time.Second),
	})
	if err != nil {
		logger.Warn("memcache set failed", zap.Error(err))
	}
}
