package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterStatsRoutes 注册战绩路由（需要认证）
func (rt *Router) RegisterStatsRoutes(rg *gin.RouterGroup) {
	statsGroup := rg.Group("/stats")
	{
		statsGroup.GET("", rt.handlers.Stats.Get)
		statsGroup.GET("/all", rt.handlers.Stats.All)
		statsGroup.GET("/history", rt.handlers.Stats.History)
		statsGroup.GET("/leaderboard", rt.handlers.Stats.Leaderboard)
		statsGroup.GET("/rank", rt.handlers.Stats.Rank)
		statsGroup.GET("/achievements", rt.handlers.Stats.Achievements)

		statsGroup.POST("/game-result", rt.handlers.Stats.GameResult)      // 上报比赛结果
		statsGroup.POST("/questionnaire", rt.handlers.Stats.Questionnaire) // 入门问卷
	}
}
