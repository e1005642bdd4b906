// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

func I18nMiddleware(defaultLang string) gin.HandlerFunc {
	if defaultLang == "" {
		defaultLang = "en"
	}

	return func(c *gin.Context) {
		lang := defaultLang

		// Handle headers like "ru-RU,ru;q=0.9,en;q=0.8"; only the first
		// preference is considered
		if header := c.GetHeader("Accept-Language"); header != "" {
			first := strings.TrimSpace(strings.Split(strings.Split(header, ",")[0], ";")[0])
			switch strings.ToLower(strings.SplitN(strings.ReplaceAll(first, "_", "-"), "-", 2)[0]) {
			case "ru", "be", "uk":
				lang = "ru"
			case "en":
				lang = "en"
			}
		}

		// Set language in context
		c.Set("lang", lang)
		c.Next()
	}
}
