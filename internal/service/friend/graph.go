package friend

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"playmate_server/internal/dao/mysql/repository"
	myredis "playmate_server/internal/dao/redis"
	"playmate_server/pkg/constants"
)

// Graph 已接受好友的 ID 集合
// 读取优先走缓存集合 friend_relation:user:<uid>，未命中回源数据库后异步回填
// 好友关系变化时调用 Invalidate 同步删除双方的集合
//
// 回填与失效按用户的代数排序：回源前记下代数，回填时代数已变说明期间发生过失效，
// 读到的可能是旧集合，放弃回填
type Graph struct {
	repos *repository.Repositories
	cache myredis.AsyncCacheService

	mu   sync.Mutex
	gens map[string]uint64
}

// NewGraph cache 可为 nil，此时每次都查数据库
func NewGraph(repos *repository.Repositories, cache myredis.AsyncCacheService) *Graph {
	return &Graph{repos: repos, cache: cache, gens: make(map[string]uint64)}
}

func (g *Graph) generation(userId string) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.gens[userId]
}

func friendSetKey(userId string) string {
	return constants.FRIEND_SET_KEY_PREFIX + userId
}

// FriendIds 返回 userId 全部好友的 ID
func (g *Graph) FriendIds(ctx context.Context, userId string) ([]string, error) {
	key := friendSetKey(userId)
	if g.cache != nil {
		ids, err := g.cache.GetSetMembers(ctx, key)
		if err != nil {
			zap.L().Warn("read friend set from cache", zap.String("user_id", userId), zap.Error(err))
		} else if len(ids) > 0 {
			return ids, nil
		}
	}

	gen := g.generation(userId)
	ids, err := g.repos.Friendship.FindAcceptedCounterpartIds(ctx, userId)
	if err != nil {
		return nil, err
	}

	// 空集合不缓存，没有好友的用户每次回源
	if len(ids) > 0 && g.cache != nil {
		members := append([]string(nil), ids...)
		g.cache.SubmitTask(func() {
			g.backfill(userId, gen, members)
		})
	}
	return ids, nil
}

// backfill 持锁写入，和 Invalidate 互斥
func (g *Graph) backfill(userId string, gen uint64, members []string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.gens[userId] != gen {
		return
	}
	key := friendSetKey(userId)
	bg, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := g.cache.AddToSet(bg, key, members...); err != nil {
		zap.L().Warn("backfill friend set", zap.String("key", key), zap.Error(err))
		return
	}
	_ = g.cache.Expire(bg, key, constants.FRIEND_SET_EXPIRY_MINUTES*time.Minute)
}

// IsFriend 两人当前是否为好友
func (g *Graph) IsFriend(ctx context.Context, userId, otherId string) (bool, error) {
	ids, err := g.FriendIds(ctx, userId)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == otherId {
			return true, nil
		}
	}
	return false, nil
}

// Invalidate 删除若干用户的好友集合缓存
func (g *Graph) Invalidate(ctx context.Context, userIds ...string) {
	if g.cache == nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, uid := range userIds {
		g.gens[uid]++
		if err := g.cache.Delete(ctx, friendSetKey(uid)); err != nil {
			zap.L().Error("invalidate friend set", zap.String("user_id", uid), zap.Error(err))
		}
	}
}
