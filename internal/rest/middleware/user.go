package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	HeaderUserID = "X-User-ID"
	CtxUserID    = "user_id"
)

// UserIdentity 从网关注入的 X-User-ID 头读取当前用户，认证由上游负责
func UserIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(HeaderUserID)
		uid, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || uid <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing or invalid " + HeaderUserID + " header"})
			return
		}
		c.Set(CtxUserID, uid)
		c.Next()
	}
}
