package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"judgewatch/service/translate"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

func TestLocaleMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(LocaleMiddleware(language.AmericanEnglish))
	r.GET("/", func(c *gin.Context) {
		if tag, ok := translate.LocaleFrom(c.Request.Context()); !ok || tag != Locale(c) {
			t.Error("request context and gin context should carry the same locale")
		}
		c.String(http.StatusOK, Locale(c).String())
	})

	tests := []struct {
		path, header, want string
	}{
		{"/", "", "en-US"},
		{"/", "pt-BR,pt;q=0.9", "pt-BR"},
		{"/?locale=pt-BR", "en-GB", "pt-BR"},
		{"/?locale=x!", "", "en-US"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		if tt.header != "" {
			req.Header.Set("Accept-Language", tt.header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Body.String() != tt.want {
			t.Errorf("locale of %s %q should be %s, but %s", tt.path, tt.header, tt.want, w.Body)
		}
	}
}

func TestLocaleMiddlewareSupported(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(LocaleMiddleware(language.AmericanEnglish, language.AmericanEnglish, language.BrazilianPortuguese))
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, Locale(c).String())
	})

	tests := []struct {
		path, header, want string
	}{
		{"/", "", "en-US"},
		{"/", "fr-FR", "en-US"},
		{"/", "fr-FR,pt-BR;q=0.5", "pt-BR"},
		{"/?locale=zh-Hant-TW", "", "en-US"},
		{"/?locale=pt-BR", "", "pt-BR"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		if tt.header != "" {
			req.Header.Set("Accept-Language", tt.header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Body.String() != tt.want {
			t.Errorf("locale of %s %q should be %s, but %s", tt.path, tt.header, tt.want, w.Body)
		}
	}
}
