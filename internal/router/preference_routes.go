package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterPreferenceRoutes 注册偏好路由（需要认证）
func (rt *Router) RegisterPreferenceRoutes(rg *gin.RouterGroup) {
	preferenceGroup := rg.Group("/preference")
	{
		preferenceGroup.GET("", rt.handlers.Preference.All)
		preferenceGroup.GET("/:key", rt.handlers.Preference.Get)
		preferenceGroup.PUT("/:key", rt.handlers.Preference.Set)
		preferenceGroup.DELETE("/:key", rt.handlers.Preference.Delete)
	}
}
