package jwt

import (
	"github.com/gin-gonic/gin"
)

// PayloadKey gin.Context 中保存令牌内容的键
const PayloadKey = "payload"

func GetUserPayload(c *gin.Context) (userPayload *Claims, exist bool) {
	payload, _ := c.Get(PayloadKey)
	userPayload, exist = payload.(*Claims)
	return
}
