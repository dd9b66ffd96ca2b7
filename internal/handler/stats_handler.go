package handler

import (
	"playmate_server/internal/dto/request"
	"playmate_server/internal/model"
	"playmate_server/internal/service"

	"github.com/gin-gonic/gin"
)

// StatsHandler 战绩请求处理器
type StatsHandler struct {
	statsSvc service.StatsService
}

// NewStatsHandler 创建战绩处理器实例
func NewStatsHandler(statsSvc service.StatsService) *StatsHandler {
	return &StatsHandler{statsSvc: statsSvc}
}

// GameResult 上报比赛结果
// POST /stats/game-result
// 响应: respond.GameResultRespond (更新后的战绩 + 新解锁的成就)
func (h *StatsHandler) GameResult(c *gin.Context) {
	var req request.GameResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.statsSvc.ProcessGameResult(c.Request.Context(), currentUserId(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Questionnaire 提交入门问卷
// POST /stats/questionnaire
func (h *StatsHandler) Questionnaire(c *gin.Context) {
	var req request.QuestionnaireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.statsSvc.SubmitQuestionnaire(c.Request.Context(), currentUserId(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Get 某项目的战绩，没有记录时返回默认值
// GET /stats?sport=football
func (h *StatsHandler) Get(c *gin.Context) {
	var req request.SportQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.statsSvc.GetStatistics(c.Request.Context(), currentUserId(c), model.Sport(req.Sport))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// All GET /stats/all
func (h *StatsHandler) All(c *gin.Context) {
	data, err := h.statsSvc.GetAllStatistics(c.Request.Context(), currentUserId(c))
	HandleList(c, data, err)
}

// History 比赛记录
// GET /stats/history?sport=&limit=
func (h *StatsHandler) History(c *gin.Context) {
	var req request.OptionalSportQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.statsSvc.GetGameHistory(c.Request.Context(), currentUserId(c), model.Sport(req.Sport), req.Limit)
	HandleList(c, data, err)
}

// Leaderboard GET /stats/leaderboard?sport=&limit=
func (h *StatsHandler) Leaderboard(c *gin.Context) {
	var req request.LeaderboardQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.statsSvc.Leaderboard(c.Request.Context(), model.Sport(req.Sport), req.Limit)
	HandleList(c, data, err)
}

// Rank GET /stats/rank?sport=
func (h *StatsHandler) Rank(c *gin.Context) {
	var req request.SportQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.statsSvc.UserRank(c.Request.Context(), currentUserId(c), model.Sport(req.Sport))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Achievements GET /stats/achievements?sport=
func (h *StatsHandler) Achievements(c *gin.Context) {
	var req request.OptionalSportQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.statsSvc.ListAchievements(c.Request.Context(), currentUserId(c), model.Sport(req.Sport))
	HandleList(c, data, err)
}
