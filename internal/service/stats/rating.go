package stats

import (
	"math"
	"strings"

	"playmate_server/internal/model"
	"playmate_server/pkg/errorx"
)

// 评分区间与单场变化
const (
	MinRating     = 2.0
	MaxRating     = 3.5
	DefaultRating = MinRating

	winDelta  = 0.4
	lossDelta = -0.4
)

// Clamp 保留一位小数并限制在 [MinRating, MaxRating]
func Clamp(r float64) float64 {
	r = math.Round(r*10) / 10
	return math.Min(MaxRating, math.Max(MinRating, r))
}

// Apply 按比赛结果计算新评分：胜 +0.4，负 -0.4，平不变
func Apply(current float64, result model.GameResult) (float64, error) {
	switch result {
	case model.ResultWin:
		return Clamp(current + winDelta), nil
	case model.ResultLoss:
		return Clamp(current + lossDelta), nil
	case model.ResultDraw:
		return Clamp(current), nil
	default:
		return 0, errorx.Newf(errorx.CodeInvalidParam, "未知的比赛结果 %q", result)
	}
}

// Answers 入门问卷的选项
type Answers struct {
	Experience string
	Frequency  string
	SkillLevel string
	Training   string
	PlayType   string
}

var experienceBonus = map[string]float64{
	"over_5_years":       0.5,
	"over_3_years":       0.5,
	"1_to_5_years":       0.3,
	"1_to_3_years":       0.3,
	"6_months_to_1_year": 0.3,
	"under_1_year":       0.1,
	"under_6_months":     0.1,
}

var frequencyBonus = map[string]float64{
	"almost_daily": 0.4,
	"2_3_per_week": 0.3,
	"weekly":       0.2,
}

var skillBonus = map[string]float64{
	"professional": 0.4,
	"advanced":     0.3,
	"intermediate": 0.2,
}

// 训练情况和比赛类型取两者中较高的一档
var trainingBonus = map[string]float64{
	"competes_professionally": 0.4,
	"club_member":             0.4,
	"semi_professional":       0.4,
	"coached_regularly":       0.3,
	"competes_regularly":      0.3,
	"occasional_training":     0.2,
	"mostly_recreational":     0.2,
}

// InitialRating 问卷得出的初始评分，未识别的选项不加分
func InitialRating(a Answers) float64 {
	r := DefaultRating
	r += experienceBonus[a.Experience]
	r += frequencyBonus[a.Frequency]
	r += skillBonus[a.SkillLevel]
	r += math.Max(trainingBonus[a.Training], trainingBonus[a.PlayType])
	return Clamp(r)
}

// CountWords 按空白切分的词数
func CountWords(s string) int {
	return len(strings.Fields(s))
}

// WinPercentage 胜率百分比，保留一位小数，未参赛为 0
func WinPercentage(won, played int) float64 {
	if played <= 0 {
		return 0
	}
	return math.Round(float64(won)/float64(played)*1000) / 10
}
