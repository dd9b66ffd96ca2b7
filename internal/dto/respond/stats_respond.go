package respond

// StatisticsRespond 分项目战绩
type StatisticsRespond struct {
	Sport         string  `json:"sport"`
	GamesPlayed   int     `json:"games_played"`
	GamesWon      int     `json:"games_won"`
	GamesLost     int     `json:"games_lost"`
	GamesDrawn    int     `json:"games_drawn"`
	GoalsScored   int     `json:"goals_scored"`
	Assists       int     `json:"assists"`
	AverageRating float64 `json:"average_rating"`
	WinPercentage float64 `json:"win_percentage"`
}

// GameResultRespond 上报比赛结果后的评分变化
type GameResultRespond struct {
	PreviousRating float64 `json:"previous_rating"`
	NewRating      float64 `json:"new_rating"`
}

// QuestionnaireRespond 问卷得出的初始评分
type QuestionnaireRespond struct {
	Sport         string  `json:"sport"`
	InitialRating float64 `json:"initial_rating"`
}

// GameHistoryRespond 比赛记录
type GameHistoryRespond struct {
	GameId      string  `json:"game_id"`
	Sport       string  `json:"sport"`
	Result      string  `json:"result"`
	GoalsScored int     `json:"goals_scored"`
	Assists     int     `json:"assists"`
	Rating      float64 `json:"rating"`
	Notes       string  `json:"notes,omitempty"`
	PlayedAt    string  `json:"played_at"`
}

// LeaderboardEntryRespond 排行榜条目
type LeaderboardEntryRespond struct {
	Rank          int             `json:"rank"`
	User          UserInfoRespond `json:"user"`
	AverageRating float64         `json:"average_rating"`
	GamesPlayed   int             `json:"games_played"`
	GamesWon      int             `json:"games_won"`
	WinPercentage float64         `json:"win_percentage"`
}

// RankRespond 用户排名，0 表示未上榜
type RankRespond struct {
	Sport string `json:"sport"`
	Rank  int64  `json:"rank"`
}

// AchievementRespond 成就
type AchievementRespond struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Sport       string `json:"sport,omitempty"`
	UnlockedAt  string `json:"unlocked_at"`
}
