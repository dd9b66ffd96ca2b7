// Package friend 好友关系状态机
// 一对用户至多一条记录：pending -> accepted / declined，accepted 可删除，任意状态可被拉黑
package friend

import (
	"context"

	"go.uber.org/zap"

	"playmate_server/internal/dao/mysql/repository"
	"playmate_server/internal/dto/respond"
	"playmate_server/internal/infrastructure/mq"
	"playmate_server/internal/model"
	"playmate_server/pkg/errorx"
	"playmate_server/pkg/util/clock"
	"playmate_server/pkg/util/random"
)

// Notifier 创建站内通知，好友请求和通过时使用
type Notifier interface {
	Create(ctx context.Context, userId string, payload model.NotificationPayload, title, content string) (*model.Notification, error)
}

// friendService 好友业务逻辑实现
type friendService struct {
	repos    *repository.Repositories
	graph    *Graph
	notifier Notifier
	broker   mq.Broker
	clk      clock.Clock
}

// NewFriendService 构造函数
func NewFriendService(repos *repository.Repositories, graph *Graph, notifier Notifier, broker mq.Broker, clk clock.Clock) *friendService {
	return &friendService{repos: repos, graph: graph, notifier: notifier, broker: broker, clk: clk}
}

// SendRequest 发送好友请求
// 该用户对已有任何记录（含反方向、已拒绝、已拉黑）都返回 AlreadyExists
func (s *friendService) SendRequest(ctx context.Context, from, to string) (*respond.SendFriendRequestRespond, error) {
	if from == to {
		return nil, errorx.New(errorx.CodeInvalidParam, "不能添加自己为好友")
	}
	if _, err := s.repos.User.FindByUuid(ctx, to); err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.ErrUserNotExist
		}
		zap.L().Error("find addressee", zap.String("user_id", to), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	if _, err := s.repos.Friendship.FindByPair(ctx, from, to); err == nil {
		return nil, errorx.New(errorx.CodeAlreadyExists, "好友关系已存在")
	} else if !errorx.IsNotFound(err) {
		zap.L().Error("find friendship by pair", zap.String("from", from), zap.String("to", to), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	now := s.clk.Now()
	f := &model.Friendship{
		ID:          random.NewID('F'),
		RequesterId: from,
		AddresseeId: to,
		Status:      model.FriendshipPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repos.Friendship.Create(ctx, f); err != nil {
		// 并发的双向请求由 pair_key 唯一索引兜底
		if errorx.IsCode(err, errorx.CodeAlreadyExists) {
			return nil, errorx.New(errorx.CodeAlreadyExists, "好友关系已存在")
		}
		zap.L().Error("create friendship", zap.String("from", from), zap.String("to", to), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	s.notify(ctx, to, model.FriendRequestPayload{FriendshipID: f.ID, RequesterID: from}, "新的好友请求")
	mq.Notify(ctx, s.broker, mq.TableFriendship, from, from, to)

	return &respond.SendFriendRequestRespond{FriendshipId: f.ID, Status: string(f.Status)}, nil
}

// Accept 接收方通过请求，重复通过视为成功
func (s *friendService) Accept(ctx context.Context, actor, id string) error {
	f, changed, err := s.transition(ctx, actor, id, model.FriendshipAccepted)
	if err != nil || !changed {
		return err
	}
	s.graph.Invalidate(ctx, f.RequesterId, f.AddresseeId)
	s.notify(ctx, f.RequesterId, model.FriendAcceptedPayload{FriendshipID: f.ID, AddresseeID: actor}, "好友请求已通过")
	mq.Notify(ctx, s.broker, mq.TableFriendship, actor, f.RequesterId, f.AddresseeId)
	return nil
}

// Decline 接收方拒绝请求，重复拒绝视为成功
func (s *friendService) Decline(ctx context.Context, actor, id string) error {
	f, changed, err := s.transition(ctx, actor, id, model.FriendshipDeclined)
	if err != nil || !changed {
		return err
	}
	mq.Notify(ctx, s.broker, mq.TableFriendship, actor, f.RequesterId, f.AddresseeId)
	return nil
}

// transition 处理 pending -> to 的状态变更
// changed 为 false 表示记录已处于目标状态，无需任何副作用
func (s *friendService) transition(ctx context.Context, actor, id string, to model.FriendshipStatus) (f *model.Friendship, changed bool, err error) {
	f, err = s.findFriendship(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if f.AddresseeId != actor {
		return nil, false, errorx.New(errorx.CodeForbidden, "只有接收方可以处理该请求")
	}
	if f.Status == to {
		return f, false, nil
	}
	if f.Status != model.FriendshipPending {
		return nil, false, errorx.Newf(errorx.CodeInvalidState, "好友关系当前状态为 %s", f.Status)
	}

	now := s.clk.Now()
	n, err := s.repos.Friendship.CompareAndSetStatus(ctx, id, model.FriendshipPending, to, now)
	if err != nil {
		zap.L().Error("update friendship status", zap.String("id", id), zap.String("to", string(to)), zap.Error(err))
		return nil, false, errorx.ErrServerBusy
	}
	if n == 0 {
		// 并发处理中落后的一方，按最新状态判断
		latest, err := s.findFriendship(ctx, id)
		if err != nil {
			return nil, false, err
		}
		if latest.Status == to {
			return latest, false, nil
		}
		return nil, false, errorx.Newf(errorx.CodeInvalidState, "好友关系当前状态为 %s", latest.Status)
	}

	f.Status = to
	f.UpdatedAt = now
	return f, true, nil
}

// Remove 任一方删除已接受的好友关系，记录物理删除
func (s *friendService) Remove(ctx context.Context, actor, id string) error {
	f, err := s.findFriendship(ctx, id)
	if err != nil {
		return err
	}
	if !f.Involves(actor) {
		return errorx.New(errorx.CodeForbidden, "不是该好友关系的成员")
	}
	if f.Status != model.FriendshipAccepted {
		return errorx.Newf(errorx.CodeInvalidState, "好友关系当前状态为 %s", f.Status)
	}
	n, err := s.repos.Friendship.Delete(ctx, id)
	if err != nil {
		zap.L().Error("delete friendship", zap.String("id", id), zap.Error(err))
		return errorx.ErrServerBusy
	}
	if n == 0 {
		return errorx.New(errorx.CodeNotFound, "好友关系不存在")
	}
	s.graph.Invalidate(ctx, f.RequesterId, f.AddresseeId)
	mq.Notify(ctx, s.broker, mq.TableFriendship, actor, f.RequesterId, f.AddresseeId)
	return nil
}

// Block 拉黑对方，已有记录改为 blocked 且发起人改为 actor，没有记录则新建
// 已被对方拉黑时不能反向覆盖
func (s *friendService) Block(ctx context.Context, actor, other string) error {
	if actor == other {
		return errorx.New(errorx.CodeInvalidParam, "不能拉黑自己")
	}
	if _, err := s.repos.User.FindByUuid(ctx, other); err != nil {
		if errorx.IsNotFound(err) {
			return errorx.ErrUserNotExist
		}
		zap.L().Error("find user", zap.String("user_id", other), zap.Error(err))
		return errorx.ErrServerBusy
	}

	now := s.clk.Now()
	f, err := s.repos.Friendship.FindByPair(ctx, actor, other)
	switch {
	case err == nil:
		if f.Status == model.FriendshipBlocked {
			if f.RequesterId == actor {
				return nil
			}
			return errorx.New(errorx.CodeForbidden, "对方已将你拉黑")
		}
		f.RequesterId, f.AddresseeId = actor, other
		f.Status = model.FriendshipBlocked
		f.UpdatedAt = now
		if err := s.repos.Friendship.Save(ctx, f); err != nil {
			zap.L().Error("block friendship", zap.String("id", f.ID), zap.Error(err))
			return errorx.ErrServerBusy
		}
	case errorx.IsNotFound(err):
		f = &model.Friendship{
			ID:          random.NewID('F'),
			RequesterId: actor,
			AddresseeId: other,
			Status:      model.FriendshipBlocked,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.repos.Friendship.Create(ctx, f); err != nil {
			if errorx.IsCode(err, errorx.CodeAlreadyExists) {
				return errorx.New(errorx.CodeAlreadyExists, "好友关系已存在")
			}
			zap.L().Error("create blocked friendship", zap.String("actor", actor), zap.Error(err))
			return errorx.ErrServerBusy
		}
	default:
		zap.L().Error("find friendship by pair", zap.String("actor", actor), zap.String("other", other), zap.Error(err))
		return errorx.ErrServerBusy
	}

	s.graph.Invalidate(ctx, actor, other)
	mq.Notify(ctx, s.broker, mq.TableFriendship, actor, actor, other)
	return nil
}

// Unblock 拉黑方解除拉黑，记录删除后双方回到无关系
func (s *friendService) Unblock(ctx context.Context, actor, other string) error {
	f, err := s.repos.Friendship.FindByPair(ctx, actor, other)
	if err != nil {
		if errorx.IsNotFound(err) {
			return errorx.New(errorx.CodeNotFound, "好友关系不存在")
		}
		zap.L().Error("find friendship by pair", zap.String("actor", actor), zap.String("other", other), zap.Error(err))
		return errorx.ErrServerBusy
	}
	if f.Status != model.FriendshipBlocked {
		return errorx.Newf(errorx.CodeInvalidState, "好友关系当前状态为 %s", f.Status)
	}
	if f.RequesterId != actor {
		return errorx.New(errorx.CodeForbidden, "只有拉黑方可以解除")
	}
	if _, err := s.repos.Friendship.Delete(ctx, f.ID); err != nil {
		zap.L().Error("delete friendship", zap.String("id", f.ID), zap.Error(err))
		return errorx.ErrServerBusy
	}
	mq.Notify(ctx, s.broker, mq.TableFriendship, actor, actor, other)
	return nil
}

// StatusBetween 查询两人之间的关系，没有记录返回 none
func (s *friendService) StatusBetween(ctx context.Context, self, other string) (*respond.FriendshipStatusRespond, error) {
	f, err := s.repos.Friendship.FindByPair(ctx, self, other)
	if err != nil {
		if errorx.IsNotFound(err) {
			return &respond.FriendshipStatusRespond{Status: string(model.FriendshipNone)}, nil
		}
		zap.L().Error("find friendship by pair", zap.String("self", self), zap.String("other", other), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	return &respond.FriendshipStatusRespond{
		Status:       string(f.Status),
		IsRequester:  f.RequesterId == self,
		FriendshipId: f.ID,
	}, nil
}

// ListFriends 好友列表，按成为好友的时间倒序
func (s *friendService) ListFriends(ctx context.Context, userId string) ([]respond.FriendRespond, error) {
	list, err := s.repos.Friendship.FindAccepted(ctx, userId)
	if err != nil {
		zap.L().Error("find accepted friendships", zap.String("user_id", userId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	users, err := s.loadCounterparts(ctx, userId, list)
	if err != nil {
		return nil, err
	}
	rsp := make([]respond.FriendRespond, 0, len(list))
	for i := range list {
		f := &list[i]
		rsp = append(rsp, respond.FriendRespond{
			FriendshipId: f.ID,
			User:         users.Get(f.Counterpart(userId)),
			Since:        respond.FormatTime(f.UpdatedAt),
		})
	}
	return rsp, nil
}

// ListPendingRequests 收到的待处理请求
func (s *friendService) ListPendingRequests(ctx context.Context, userId string) ([]respond.FriendRequestRespond, error) {
	list, err := s.repos.Friendship.FindPendingReceived(ctx, userId)
	if err != nil {
		zap.L().Error("find pending received", zap.String("user_id", userId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	return s.toRequests(ctx, userId, list)
}

// ListSentRequests 发出且未处理的请求
func (s *friendService) ListSentRequests(ctx context.Context, userId string) ([]respond.FriendRequestRespond, error) {
	list, err := s.repos.Friendship.FindPendingSent(ctx, userId)
	if err != nil {
		zap.L().Error("find pending sent", zap.String("user_id", userId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	return s.toRequests(ctx, userId, list)
}

func (s *friendService) toRequests(ctx context.Context, userId string, list []model.Friendship) ([]respond.FriendRequestRespond, error) {
	users, err := s.loadCounterparts(ctx, userId, list)
	if err != nil {
		return nil, err
	}
	rsp := make([]respond.FriendRequestRespond, 0, len(list))
	for i := range list {
		f := &list[i]
		rsp = append(rsp, respond.FriendRequestRespond{
			FriendshipId: f.ID,
			User:         users.Get(f.Counterpart(userId)),
			CreatedAt:    respond.FormatTime(f.CreatedAt),
		})
	}
	return rsp, nil
}

func (s *friendService) findFriendship(ctx context.Context, id string) (*model.Friendship, error) {
	f, err := s.repos.Friendship.FindByID(ctx, id)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeNotFound, "好友关系不存在")
		}
		zap.L().Error("find friendship", zap.String("id", id), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	return f, nil
}

// notify 通知失败不影响主流程
func (s *friendService) notify(ctx context.Context, userId string, payload model.NotificationPayload, title string) {
	if s.notifier == nil {
		return
	}
	if _, err := s.notifier.Create(ctx, userId, payload, title, ""); err != nil {
		zap.L().Warn("create friend notification", zap.String("user_id", userId), zap.Error(err))
	}
}

// UserIndex 按 uuid 索引的用户资料，账号不存在时 Get 返回占位资料
type UserIndex map[string]*model.UserInfo

func (idx UserIndex) Get(uuid string) respond.UserInfoRespond {
	if u, ok := idx[uuid]; ok {
		return respond.NewUserInfo(u)
	}
	return respond.UnknownUser(uuid)
}

func (s *friendService) loadCounterparts(ctx context.Context, userId string, list []model.Friendship) (UserIndex, error) {
	ids := make([]string, 0, len(list))
	for i := range list {
		ids = append(ids, list[i].Counterpart(userId))
	}
	return LoadUsers(ctx, s.repos, ids)
}

// LoadUsers 批量加载用户资料
func LoadUsers(ctx context.Context, repos *repository.Repositories, ids []string) (UserIndex, error) {
	idx := make(UserIndex, len(ids))
	if len(ids) == 0 {
		return idx, nil
	}
	users, err := repos.User.FindByUuids(ctx, ids)
	if err != nil {
		zap.L().Error("batch find users", zap.Int("count", len(ids)), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	for i := range users {
		idx[users[i].Uuid] = &users[i]
	}
	return idx, nil
}
