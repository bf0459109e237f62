package middleware

import (
	"judgewatch/service/translate"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"
)

// LocaleKey is the gin context key of the request locale.
const LocaleKey = "_locale"

// LocaleMiddleware picks the locale of the request from the "locale" query
// parameter, then the Accept-Language header, then fallback. When supported
// is given, the request locale is replaced by the closest supported one,
// supported[0] when none is close. The locale is stored in the gin context
// and in the request context for translations.
func LocaleMiddleware(fallback language.Tag, supported ...language.Tag) gin.HandlerFunc {
	var matcher language.Matcher
	if len(supported) > 0 {
		matcher = language.NewMatcher(supported)
	}
	return func(c *gin.Context) {
		prefs := []language.Tag{fallback}
		if q := c.Query("locale"); q != "" {
			if t, err := language.Parse(q); err == nil {
				prefs = []language.Tag{t}
			} else {
				log.WithError(err).WithField("locale", q).Debug("Invalid locale")
			}
		} else if h := c.GetHeader("Accept-Language"); h != "" {
			if tags, _, err := language.ParseAcceptLanguage(h); err == nil && len(tags) > 0 {
				prefs = tags
			}
		}
		tag := prefs[0]
		if matcher != nil {
			_, i, _ := matcher.Match(prefs...)
			tag = supported[i]
		}
		c.Set(LocaleKey, tag)
		c.Request = c.Request.WithContext(translate.WithLocale(c.Request.Context(), tag))
		c.Next()
	}
}

// Locale returns the locale stored by LocaleMiddleware, or und.
func Locale(c *gin.Context) language.Tag {
	if v, ok := c.Get(LocaleKey); ok {
		if tag, ok := v.(language.Tag); ok {
			return tag
		}
	}
	return language.Und
}
