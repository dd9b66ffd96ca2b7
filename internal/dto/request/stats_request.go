package request

import "time"

// GameResultRequest 上报一场比赛结果
type GameResultRequest struct {
	GameId      string     `json:"game_id" binding:"required,max=64"`
	Sport       string     `json:"sport" binding:"required,oneof=football padel basketball"`
	Result      string     `json:"result" binding:"required"`
	GoalsScored int        `json:"goals_scored" binding:"min=0"`
	Assists     int        `json:"assists" binding:"min=0"`
	Notes       string     `json:"notes" binding:"max=255"`
	PlayedAt    *time.Time `json:"played_at"`
}

// QuestionnaireRequest 选定项目后的入门问卷
// 各选项取值见 stats.InitialRating
type QuestionnaireRequest struct {
	Sport      string `json:"sport" binding:"required,oneof=football padel basketball"`
	Experience string `json:"experience" binding:"required"`
	Frequency  string `json:"frequency" binding:"required"`
	SkillLevel string `json:"skill_level" binding:"required"`
	Training   string `json:"training"`
	PlayType   string `json:"play_type"`
	Motivation string `json:"motivation" binding:"required,minwords=5"`
}

// SportQuery 按项目查询
type SportQuery struct {
	Sport string `form:"sport" binding:"required,oneof=football padel basketball"`
}

// OptionalSportQuery 项目可选，为空表示全部
type OptionalSportQuery struct {
	Sport string `form:"sport" binding:"omitempty,oneof=football padel basketball"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// LeaderboardQuery 排行榜查询
type LeaderboardQuery struct {
	Sport string `form:"sport" binding:"required,oneof=football padel basketball"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=100"`
}
