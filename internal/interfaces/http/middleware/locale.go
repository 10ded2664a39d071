package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/atlanticave/storefront/internal/infrastructure/i18n"
)

const messagesKey = "messages"

const invalidBodyKey = i18n.InvalidRequestBody

// Locale resolves the response language from Accept-Language and
// announces it in Content-Language.
func Locale() gin.HandlerFunc {
	return func(c *gin.Context) {
		messages := i18n.ForAcceptLanguage(c.GetHeader("Accept-Language"))
		c.Set(messagesKey, messages)
		c.Header("Content-Language", messages.Tag().String())
		c.Next()
	}
}

// GetMessages returns the messages chosen by Locale, or the default catalog
func GetMessages(c *gin.Context) i18n.Messages {
	if v, ok := c.Get(messagesKey); ok {
		if m, ok := v.(i18n.Messages); ok {
			return m
		}
	}
	return i18n.Default()
}
