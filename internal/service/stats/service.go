// Package stats 分项目战绩、评分、排行榜和成就
package stats

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"playmate_server/internal/dao/mysql/repository"
	"playmate_server/internal/dto/request"
	"playmate_server/internal/dto/respond"
	"playmate_server/internal/infrastructure/mq"
	"playmate_server/internal/model"
	"playmate_server/internal/service/friend"
	"playmate_server/pkg/constants"
	"playmate_server/pkg/errorx"
	"playmate_server/pkg/util/clock"
)

// statsService 战绩业务逻辑实现
type statsService struct {
	repos  *repository.Repositories
	broker mq.Broker
	clk    clock.Clock
}

// NewStatsService 构造函数
func NewStatsService(repos *repository.Repositories, broker mq.Broker, clk clock.Clock) *statsService {
	return &statsService{repos: repos, broker: broker, clk: clk}
}

// SubmitQuestionnaire 根据问卷写入该项目的初始评分，并完成新手引导
// 已有比赛记录的项目不能再用问卷重置评分
func (s *statsService) SubmitQuestionnaire(ctx context.Context, userId string, req request.QuestionnaireRequest) (*respond.QuestionnaireRespond, error) {
	sport := model.Sport(req.Sport)
	if !sport.Valid() {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "不支持的项目 %q", req.Sport)
	}
	if CountWords(req.Motivation) < constants.MIN_MOTIVATION_WORDS {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "请至少用 %d 个词描述你的目标", constants.MIN_MOTIVATION_WORDS)
	}
	rating := InitialRating(Answers{
		Experience: req.Experience,
		Frequency:  req.Frequency,
		SkillLevel: req.SkillLevel,
		Training:   req.Training,
		PlayType:   req.PlayType,
	})

	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		st, err := tx.Statistics.Find(ctx, userId, sport)
		switch {
		case errorx.IsNotFound(err):
			st = &model.UserStatistics{UserId: userId, Sport: sport}
		case err != nil:
			return err
		case st.GamesPlayed > 0:
			return errorx.New(errorx.CodeInvalidState, "该项目已有比赛记录，不能重新评估")
		}
		st.AverageRating = rating
		if err := tx.Statistics.Save(ctx, st); err != nil {
			return err
		}
		now := s.clk.Now()
		for key, value := range map[string]string{
			constants.PREF_ONBOARDING_COMPLETED: "true",
			constants.PREF_SELECTED_SPORT:       string(sport),
		} {
			if err := tx.Preference.Upsert(ctx, &model.UserPreference{UserId: userId, Key: key, Value: value, UpdatedAt: now}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errorx.IsCode(err, errorx.CodeInvalidState) {
			return nil, err
		}
		zap.L().Error("submit questionnaire", zap.String("user_id", userId), zap.String("sport", req.Sport), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	mq.Notify(ctx, s.broker, mq.TableStatistics, userId, userId)
	mq.Notify(ctx, s.broker, mq.TablePreference, userId, userId)
	return &respond.QuestionnaireRespond{Sport: string(sport), InitialRating: rating}, nil
}

// ProcessGameResult 记录一场比赛：更新评分和计数、追加比赛记录、解锁成就，全部在一个事务内
func (s *statsService) ProcessGameResult(ctx context.Context, userId string, req request.GameResultRequest) (*respond.GameResultRespond, error) {
	sport := model.Sport(req.Sport)
	if !sport.Valid() {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "不支持的项目 %q", req.Sport)
	}
	result := model.GameResult(req.Result)
	// 先校验结果，非法结果不进入事务
	if _, err := Apply(DefaultRating, result); err != nil {
		return nil, err
	}

	now := s.clk.Now()
	playedAt := now
	if req.PlayedAt != nil && !req.PlayedAt.IsZero() {
		playedAt = req.PlayedAt.UTC()
	}

	var rsp respond.GameResultRespond
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		st, err := tx.Statistics.Find(ctx, userId, sport)
		if errorx.IsNotFound(err) {
			st = &model.UserStatistics{UserId: userId, Sport: sport, AverageRating: DefaultRating}
		} else if err != nil {
			return err
		}

		next, err := Apply(st.AverageRating, result)
		if err != nil {
			return err
		}
		rsp.PreviousRating = st.AverageRating
		rsp.NewRating = next

		st.AverageRating = next
		st.GamesPlayed++
		switch result {
		case model.ResultWin:
			st.GamesWon++
		case model.ResultLoss:
			st.GamesLost++
		case model.ResultDraw:
			st.GamesDrawn++
		}
		st.GoalsScored += req.GoalsScored
		st.Assists += req.Assists
		if err := tx.Statistics.Save(ctx, st); err != nil {
			return err
		}

		if err := tx.Statistics.CreateHistory(ctx, &model.GameHistory{
			UserId:      userId,
			GameId:      req.GameId,
			Sport:       sport,
			Result:      result,
			GoalsScored: req.GoalsScored,
			Assists:     req.Assists,
			Rating:      next,
			Notes:       req.Notes,
			PlayedAt:    playedAt,
			CreatedAt:   now,
		}); err != nil {
			return err
		}
		return awardAchievements(ctx, tx, st, now)
	})
	if err != nil {
		zap.L().Error("process game result", zap.String("user_id", userId), zap.String("game_id", req.GameId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	mq.Notify(ctx, s.broker, mq.TableStatistics, userId, userId)
	return &rsp, nil
}

// GetStatistics 某项目战绩，没有记录时返回默认评分和零计数
func (s *statsService) GetStatistics(ctx context.Context, userId string, sport model.Sport) (*respond.StatisticsRespond, error) {
	st, err := s.repos.Statistics.Find(ctx, userId, sport)
	if err != nil {
		if errorx.IsNotFound(err) {
			rsp := toStatistics(&model.UserStatistics{UserId: userId, Sport: sport, AverageRating: DefaultRating})
			return &rsp, nil
		}
		zap.L().Error("find statistics", zap.String("user_id", userId), zap.String("sport", string(sport)), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	rsp := toStatistics(st)
	return &rsp, nil
}

// GetAllStatistics 全部项目战绩
func (s *statsService) GetAllStatistics(ctx context.Context, userId string) ([]respond.StatisticsRespond, error) {
	list, err := s.repos.Statistics.FindAll(ctx, userId)
	if err != nil {
		zap.L().Error("find all statistics", zap.String("user_id", userId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	rsp := make([]respond.StatisticsRespond, 0, len(list))
	for i := range list {
		rsp = append(rsp, toStatistics(&list[i]))
	}
	return rsp, nil
}

// GetGameHistory 比赛记录，sport 为空时返回全部项目
func (s *statsService) GetGameHistory(ctx context.Context, userId string, sport model.Sport, limit int) ([]respond.GameHistoryRespond, error) {
	list, err := s.repos.Statistics.FindHistory(ctx, userId, sport, normalizeLimit(limit))
	if err != nil {
		zap.L().Error("find game history", zap.String("user_id", userId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	rsp := make([]respond.GameHistoryRespond, 0, len(list))
	for _, h := range list {
		rsp = append(rsp, respond.GameHistoryRespond{
			GameId:      h.GameId,
			Sport:       string(h.Sport),
			Result:      string(h.Result),
			GoalsScored: h.GoalsScored,
			Assists:     h.Assists,
			Rating:      h.Rating,
			Notes:       h.Notes,
			PlayedAt:    respond.FormatTime(h.PlayedAt),
		})
	}
	return rsp, nil
}

// Leaderboard 排行榜，只包含至少打过一场的用户
func (s *statsService) Leaderboard(ctx context.Context, sport model.Sport, limit int) ([]respond.LeaderboardEntryRespond, error) {
	list, err := s.repos.Statistics.Leaderboard(ctx, sport, normalizeLimit(limit))
	if err != nil {
		zap.L().Error("find leaderboard", zap.String("sport", string(sport)), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	ids := make([]string, 0, len(list))
	for i := range list {
		ids = append(ids, list[i].UserId)
	}
	users, err := friend.LoadUsers(ctx, s.repos, ids)
	if err != nil {
		return nil, err
	}

	rsp := make([]respond.LeaderboardEntryRespond, 0, len(list))
	for i, st := range list {
		rsp = append(rsp, respond.LeaderboardEntryRespond{
			Rank:          i + 1,
			User:          users.Get(st.UserId),
			AverageRating: st.AverageRating,
			GamesPlayed:   st.GamesPlayed,
			GamesWon:      st.GamesWon,
			WinPercentage: WinPercentage(st.GamesWon, st.GamesPlayed),
		})
	}
	return rsp, nil
}

// UserRank 用户在某项目的排名，从 1 开始，未参赛为 0
func (s *statsService) UserRank(ctx context.Context, userId string, sport model.Sport) (*respond.RankRespond, error) {
	rsp := &respond.RankRespond{Sport: string(sport)}
	st, err := s.repos.Statistics.Find(ctx, userId, sport)
	if err != nil {
		if errorx.IsNotFound(err) {
			return rsp, nil
		}
		zap.L().Error("find statistics", zap.String("user_id", userId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if st.GamesPlayed == 0 {
		return rsp, nil
	}
	ahead, err := s.repos.Statistics.CountAhead(ctx, sport, st.AverageRating, st.GamesWon)
	if err != nil {
		zap.L().Error("count ahead", zap.String("user_id", userId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	rsp.Rank = ahead + 1
	return rsp, nil
}

// ListAchievements 成就列表，指定项目时包含不区分项目的成就
func (s *statsService) ListAchievements(ctx context.Context, userId string, sport model.Sport) ([]respond.AchievementRespond, error) {
	list, err := s.repos.Statistics.FindAchievements(ctx, userId, sport)
	if err != nil {
		zap.L().Error("find achievements", zap.String("user_id", userId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	rsp := make([]respond.AchievementRespond, 0, len(list))
	for _, a := range list {
		item := respond.AchievementRespond{
			Type:        a.Type,
			Name:        a.Name,
			Description: a.Description,
			UnlockedAt:  respond.FormatTime(a.UnlockedAt),
		}
		if a.Sport != nil {
			item.Sport = string(*a.Sport)
		}
		rsp = append(rsp, item)
	}
	return rsp, nil
}

// achievementRule 满足条件且尚未解锁时写入成就
type achievementRule struct {
	Type        string
	Name        string
	Description string
	Reached     func(st *model.UserStatistics) bool
}

var achievementRules = []achievementRule{
	{"first_game", "初次登场", "完成第一场比赛", func(st *model.UserStatistics) bool { return st.GamesPlayed >= 1 }},
	{"first_win", "首胜", "赢下第一场比赛", func(st *model.UserStatistics) bool { return st.GamesWon >= 1 }},
	{"ten_games", "十场老将", "累计完成 10 场比赛", func(st *model.UserStatistics) bool { return st.GamesPlayed >= 10 }},
	{"rating_3", "进阶球员", "评分达到 3.0", func(st *model.UserStatistics) bool { return st.AverageRating >= 3.0 }},
}

func awardAchievements(ctx context.Context, tx *repository.Repositories, st *model.UserStatistics, now time.Time) error {
	for _, rule := range achievementRules {
		if !rule.Reached(st) {
			continue
		}
		has, err := tx.Statistics.HasAchievement(ctx, st.UserId, rule.Type, st.Sport)
		if err != nil {
			return err
		}
		if has {
			continue
		}
		sport := st.Sport
		if err := tx.Statistics.CreateAchievement(ctx, &model.Achievement{
			UserId:      st.UserId,
			Type:        rule.Type,
			Name:        rule.Name,
			Description: rule.Description,
			Sport:       &sport,
			Data:        datatypes.JSON(`{"games_played":` + strconv.Itoa(st.GamesPlayed) + `}`),
			UnlockedAt:  now,
		}); err != nil {
			return err
		}
	}
	return nil
}

func toStatistics(st *model.UserStatistics) respond.StatisticsRespond {
	return respond.StatisticsRespond{
		Sport:         string(st.Sport),
		GamesPlayed:   st.GamesPlayed,
		GamesWon:      st.GamesWon,
		GamesLost:     st.GamesLost,
		GamesDrawn:    st.GamesDrawn,
		GoalsScored:   st.GoalsScored,
		Assists:       st.Assists,
		AverageRating: st.AverageRating,
		WinPercentage: WinPercentage(st.GamesWon, st.GamesPlayed),
	}
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > constants.LIST_LIMIT*2 {
		return constants.LIST_LIMIT
	}
	return limit
}
