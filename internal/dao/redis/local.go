package redis

import (
	"context"
	"path"
	"sync"
	"time"

	"playmate_server/pkg/errorx"
)

type localEntry struct {
	value    string
	members  map[string]struct{}
	expireAt time.Time // 零值表示不过期
}

func (e *localEntry) expired(now time.Time) bool {
	return !e.expireAt.IsZero() && now.After(e.expireAt)
}

// LocalCache 进程内缓存，未配置 Redis 时使用，也用于单元测试
// String 与 Set 共用一个 key 空间，和 Redis 一致
type LocalCache struct {
	mu      sync.Mutex
	entries map[string]*localEntry
	now     func() time.Time
}

// NewLocalCache 创建进程内缓存
func NewLocalCache() *LocalCache {
	return &LocalCache{
		entries: make(map[string]*localEntry),
		now:     time.Now,
	}
}

// load 调用方需持有锁，过期的键在读取时惰性删除
func (c *LocalCache) load(key string) (*localEntry, bool) {
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if e.expired(c.now()) {
		delete(c.entries, key)
		return nil, false
	}
	return e, true
}

func (c *LocalCache) expireAt(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return c.now().Add(ttl)
}

func (c *LocalCache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &localEntry{value: value, expireAt: c.expireAt(ttl)}
	return nil
}

func (c *LocalCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.load(key); ok {
		return e.value, nil
	}
	return "", nil
}

func (c *LocalCache) GetOrError(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.load(key); ok {
		return e.value, nil
	}
	return "", errorx.Newf(errorx.CodeNotFound, "cache key %s not found", key)
}

func (c *LocalCache) Exists(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.load(key)
	return ok, nil
}

func (c *LocalCache) Expire(_ context.Context, key string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.load(key); ok {
		e.expireAt = c.expireAt(ttl)
	}
	return nil
}

func (c *LocalCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

// DeleteByPattern 使用 path.Match，覆盖 Redis glob 中的 * ? [] 语法
func (c *LocalCache) DeleteByPattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		matched, err := path.Match(pattern, key)
		if err != nil {
			return errorx.Wrapf(err, errorx.CodeCacheError, "bad pattern %s", pattern)
		}
		if matched {
			delete(c.entries, key)
		}
	}
	return nil
}

func (c *LocalCache) AddToSet(_ context.Context, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.load(key)
	if !ok {
		e = &localEntry{}
		c.entries[key] = e
	}
	if e.members == nil {
		e.members = make(map[string]struct{}, len(members))
	}
	for _, m := range members {
		e.members[m] = struct{}{}
	}
	return nil
}

func (c *LocalCache) GetSetMembers(_ context.Context, key string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.load(key)
	if !ok {
		return []string{}, nil
	}
	out := make([]string, 0, len(e.members))
	for m := range e.members {
		out = append(out, m)
	}
	return out, nil
}

func (c *LocalCache) RemoveFromSet(_ context.Context, key string, members ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.load(key)
	if !ok {
		return nil
	}
	for _, m := range members {
		delete(e.members, m)
	}
	if len(e.members) == 0 {
		delete(c.entries, key)
	}
	return nil
}

func (c *LocalCache) Ping(context.Context) error { return nil }

// SubmitTask 本地缓存操作都是内存操作，直接同步执行
func (c *LocalCache) SubmitTask(action func()) {
	runTask(action)
}

func (c *LocalCache) Close() error { return nil }

var _ AsyncCacheService = (*LocalCache)(nil)
