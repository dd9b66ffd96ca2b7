package model

import (
	"time"

	"gorm.io/datatypes"
)

// Sport 支持的运动项目
type Sport string

const (
	SportFootball   Sport = "football"
	SportPadel      Sport = "padel"
	SportBasketball Sport = "basketball"
)

// Valid 判断是否为支持的项目
func (s Sport) Valid() bool {
	switch s {
	case SportFootball, SportPadel, SportBasketball:
		return true
	}
	return false
}

// GameResult 比赛结果
type GameResult string

const (
	ResultWin  GameResult = "win"
	ResultLoss GameResult = "loss"
	ResultDraw GameResult = "draw"
)

// UserStatistics 用户分项目战绩，(user_id, sport) 唯一
type UserStatistics struct {
	ID            uint      `gorm:"primaryKey"`
	UserId        string    `gorm:"column:user_id;uniqueIndex:idx_stats_user_sport,priority:1;type:char(20);not null;comment:用户id"`
	Sport         Sport     `gorm:"column:sport;uniqueIndex:idx_stats_user_sport,priority:2;index:idx_stats_board,priority:1;type:varchar(16);not null;comment:项目"`
	GamesPlayed   int       `gorm:"column:games_played;not null;default:0;comment:场次"`
	GamesWon      int       `gorm:"column:games_won;index:idx_stats_board,priority:3;not null;default:0;comment:胜"`
	GamesLost     int       `gorm:"column:games_lost;not null;default:0;comment:负"`
	GamesDrawn    int       `gorm:"column:games_drawn;not null;default:0;comment:平"`
	GoalsScored   int       `gorm:"column:goals_scored;not null;default:0;comment:进球/得分"`
	Assists       int       `gorm:"column:assists;not null;default:0;comment:助攻"`
	AverageRating float64   `gorm:"column:average_rating;index:idx_stats_board,priority:2;not null;default:2;comment:当前评分 2.0-3.5"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

// TableName 指定表名
func (UserStatistics) TableName() string {
	return "user_statistics"
}

// GameHistory 比赛记录，只追加
type GameHistory struct {
	ID          uint       `gorm:"primaryKey"`
	UserId      string     `gorm:"column:user_id;index:idx_history_user,priority:1;type:char(20);not null;comment:用户id"`
	GameId      string     `gorm:"column:game_id;type:varchar(64);not null;comment:比赛id"`
	Sport       Sport      `gorm:"column:sport;type:varchar(16);not null;comment:项目"`
	Result      GameResult `gorm:"column:result;type:varchar(8);not null;comment:结果 win/loss/draw"`
	GoalsScored int        `gorm:"column:goals_scored;not null;default:0"`
	Assists     int        `gorm:"column:assists;not null;default:0"`
	Rating      float64    `gorm:"column:rating;not null;comment:赛后评分"`
	Notes       string     `gorm:"column:notes;type:varchar(255)"`
	PlayedAt    time.Time  `gorm:"column:played_at;index:idx_history_user,priority:2;not null"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
}

// TableName 指定表名
func (GameHistory) TableName() string {
	return "game_history"
}

// Achievement 成就，Sport 为空表示不区分项目
type Achievement struct {
	ID          uint           `gorm:"primaryKey"`
	UserId      string         `gorm:"column:user_id;index;type:char(20);not null"`
	Type        string         `gorm:"column:achievement_type;type:varchar(32);not null"`
	Name        string         `gorm:"column:achievement_name;type:varchar(64);not null"`
	Description string         `gorm:"column:achievement_description;type:varchar(255)"`
	Sport       *Sport         `gorm:"column:sport;type:varchar(16)"`
	Data        datatypes.JSON `gorm:"column:data"`
	UnlockedAt  time.Time      `gorm:"column:unlocked_at;not null"`
}

// TableName 指定表名
func (Achievement) TableName() string {
	return "user_achievement"
}
