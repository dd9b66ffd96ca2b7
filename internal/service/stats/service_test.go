package stats

import (
	"context"
	"testing"
	"time"

	"playmate_server/internal/dao/mysql/mysqltest"
	"playmate_server/internal/dao/mysql/repository"
	"playmate_server/internal/dto/request"
	"playmate_server/internal/infrastructure/mq"
	"playmate_server/internal/model"
	"playmate_server/pkg/constants"
	"playmate_server/pkg/errorx"
	"playmate_server/pkg/util/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*statsService, *repository.Repositories) {
	db := mysqltest.NewDB(t)
	mysqltest.SeedUsers(t, db, "Ualice", "Ubob", "Ucarol")
	repos := repository.NewRepositories(db)
	clk := clock.NewFake(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	return NewStatsService(repos, mq.NewChannelBroker(), clk), repos
}

func game(id, result string) request.GameResultRequest {
	return request.GameResultRequest{GameId: id, Sport: string(model.SportPadel), Result: result, GoalsScored: 1}
}

func TestProcessGameResultUpdatesCountersAndHistory(t *testing.T) {
	ctx := context.Background()
	svc, repos := newTestService(t)

	rsp, err := svc.ProcessGameResult(ctx, "Ualice", game("G1", "win"))
	require.NoError(t, err)
	assert.Equal(t, DefaultRating, rsp.PreviousRating)
	assert.Equal(t, 2.4, rsp.NewRating)

	rsp, err = svc.ProcessGameResult(ctx, "Ualice", game("G2", "loss"))
	require.NoError(t, err)
	assert.Equal(t, 2.4, rsp.PreviousRating)
	assert.Equal(t, 2.0, rsp.NewRating)

	_, err = svc.ProcessGameResult(ctx, "Ualice", game("G3", "draw"))
	require.NoError(t, err)

	st, err := svc.GetStatistics(ctx, "Ualice", model.SportPadel)
	require.NoError(t, err)
	assert.Equal(t, 3, st.GamesPlayed)
	assert.Equal(t, 1, st.GamesWon)
	assert.Equal(t, 1, st.GamesLost)
	assert.Equal(t, 1, st.GamesDrawn)
	assert.Equal(t, 3, st.GoalsScored)
	assert.Equal(t, 33.3, st.WinPercentage)

	history, err := svc.GetGameHistory(ctx, "Ualice", "", 0)
	require.NoError(t, err)
	assert.Len(t, history, 3)

	has, err := repos.Statistics.HasAchievement(ctx, "Ualice", "first_win", model.SportPadel)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestProcessGameResultRejectsUnknownResult(t *testing.T) {
	ctx := context.Background()
	svc, repos := newTestService(t)

	_, err := svc.ProcessGameResult(ctx, "Ualice", game("G1", "abandoned"))
	require.Error(t, err)
	assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))

	_, err = repos.Statistics.Find(ctx, "Ualice", model.SportPadel)
	assert.True(t, errorx.IsNotFound(err))
}

func TestAchievementsAreAwardedOnce(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	for _, id := range []string{"G1", "G2"} {
		_, err := svc.ProcessGameResult(ctx, "Ualice", game(id, "win"))
		require.NoError(t, err)
	}
	list, err := svc.ListAchievements(ctx, "Ualice", model.SportPadel)
	require.NoError(t, err)
	types := make([]string, 0, len(list))
	for _, a := range list {
		types = append(types, a.Type)
	}
	assert.ElementsMatch(t, []string{"first_game", "first_win"}, types)

	other, err := svc.ListAchievements(ctx, "Ualice", model.SportFootball)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestGetStatisticsDefaultsWhenMissing(t *testing.T) {
	svc, _ := newTestService(t)
	st, err := svc.GetStatistics(context.Background(), "Ubob", model.SportFootball)
	require.NoError(t, err)
	assert.Equal(t, DefaultRating, st.AverageRating)
	assert.Zero(t, st.GamesPlayed)
	assert.Zero(t, st.WinPercentage)
}

func TestLeaderboardAndRank(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.ProcessGameResult(ctx, "Ualice", game("G1", "win"))
	require.NoError(t, err)
	_, err = svc.ProcessGameResult(ctx, "Ubob", game("G1", "win"))
	require.NoError(t, err)
	_, err = svc.ProcessGameResult(ctx, "Ubob", game("G2", "draw"))
	require.NoError(t, err)

	board, err := svc.Leaderboard(ctx, model.SportPadel, 10)
	require.NoError(t, err)
	require.Len(t, board, 2)
	// 评分相同，按胜场再按先上榜的顺序
	assert.Equal(t, 1, board[0].Rank)
	assert.Equal(t, "Ualice", board[0].User.Uuid)
	assert.Equal(t, "Ubob", board[1].User.Uuid)

	rank, err := svc.UserRank(ctx, "Ubob", model.SportPadel)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rank.Rank)

	rank, err = svc.UserRank(ctx, "Ucarol", model.SportPadel)
	require.NoError(t, err)
	assert.EqualValues(t, 0, rank.Rank)
}

func TestSubmitQuestionnaire(t *testing.T) {
	ctx := context.Background()
	svc, repos := newTestService(t)

	req := request.QuestionnaireRequest{
		Sport:      string(model.SportFootball),
		Experience: "over_3_years",
		Frequency:  "weekly",
		SkillLevel: "intermediate",
		Motivation: "I want to play with friends",
	}
	rsp, err := svc.SubmitQuestionnaire(ctx, "Ualice", req)
	require.NoError(t, err)
	assert.Equal(t, 2.9, rsp.InitialRating)

	st, err := svc.GetStatistics(ctx, "Ualice", model.SportFootball)
	require.NoError(t, err)
	assert.Equal(t, 2.9, st.AverageRating)

	pref, err := repos.Preference.Get(ctx, "Ualice", constants.PREF_ONBOARDING_COMPLETED)
	require.NoError(t, err)
	assert.Equal(t, "true", pref.Value)
	pref, err = repos.Preference.Get(ctx, "Ualice", constants.PREF_SELECTED_SPORT)
	require.NoError(t, err)
	assert.Equal(t, "football", pref.Value)

	req.Motivation = "just fun"
	_, err = svc.SubmitQuestionnaire(ctx, "Ubob", req)
	assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))

	req.Motivation = "I want to play with friends"
	req.Sport = string(model.SportPadel)
	_, err = svc.ProcessGameResult(ctx, "Ubob", game("G1", "win"))
	require.NoError(t, err)
	_, err = svc.SubmitQuestionnaire(ctx, "Ubob", req)
	assert.Equal(t, errorx.CodeInvalidState, errorx.GetCode(err))
}
