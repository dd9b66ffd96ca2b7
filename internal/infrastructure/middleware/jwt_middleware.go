package middleware

import (
	"net/http"
	"strings"

	"playmate_server/pkg/errorx"
	"playmate_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
)

// ContextUserIDKey 鉴权通过后写入 gin.Context 的用户 ID 键
const ContextUserIDKey = "user_id"

// JWTAuth JWT 认证中间件
// 验证 Access Token 并将用户信息存入上下文
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 从 Header 获取 Token
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "请先登录")
			return
		}

		// 2. 解析 Bearer Token
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "Token 格式错误，请使用 Bearer Token")
			return
		}

		// 3. 验证 Token，必须是 Access Token
		userID, err := ParseAccessToken(parts[1])
		if err != nil {
			abortUnauthorized(c, err.Error())
			return
		}

		// 4. 将用户信息存入上下文，供后续 Handler 使用
		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}

// ParseAccessToken 校验 Access Token 并返回用户 ID
// WebSocket 握手无法携带 Header，通过 query 传 token 时也走这里
func ParseAccessToken(token string) (string, error) {
	claims, err := jwt.ParseToken(token)
	if err != nil {
		return "", errorx.Wrap(err, errorx.CodeUnauthorized, "Token 已过期或无效，请重新登录")
	}
	if claims.Subject != jwt.SubjectAccessToken {
		return "", errorx.New(errorx.CodeUnauthorized, "请使用 Access Token 访问此接口")
	}
	if claims.UserID == "" {
		return "", errorx.New(errorx.CodeUnauthorized, "Token 缺少用户信息")
	}
	return claims.UserID, nil
}

func abortUnauthorized(c *gin.Context, msg string) {
	authRejections.WithLabelValues("401_unauthorized").Inc()
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code": errorx.CodeUnauthorized,
		"msg":  msg,
	})
}
