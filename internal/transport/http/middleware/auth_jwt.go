package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"nexline-site/internal/core/auth"
	resp "nexline-site/internal/transport/http/response"
)

// sessionOf Bearer 头推导会话；缺失和解析失败同样落到匿名态
func sessionOf(c *gin.Context, j *auth.JWTer) auth.Session {
	ah := c.GetHeader("Authorization")
	if !strings.HasPrefix(ah, "Bearer ") {
		return auth.Anonymous()
	}
	claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
	if err != nil {
		return auth.Anonymous()
	}
	c.Set("claims", claims)
	c.Set("userId", claims.UID)
	c.Set("role", claims.Role)
	c.Set("username", claims.Username)
	return auth.SessionFromClaims(claims)
}

// AuthJWT API 模式的守卫：未通过返回 401/403 JSON
func AuthJWT(j *auth.JWTer, req auth.Requirement) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := sessionOf(c, j)
		d := auth.Evaluate(s, req)
		if d.Allow {
			c.Next()
			return
		}
		if !s.Authenticated {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "missing or invalid token"))
			return
		}
		c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeForbidden, "forbidden"))
	}
}

// GateRedirect 页面模式的守卫：未通过按门禁决策 302 跳转
// （匿名 → /auth，非管理员访问管理路由 → /）。每次请求重新评估。
func GateRedirect(j *auth.JWTer, req auth.Requirement) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := auth.Evaluate(sessionOf(c, j), req)
		if d.Allow {
			c.Next()
			return
		}
		c.Redirect(http.StatusFound, d.RedirectTo)
		c.Abort()
	}
}
