package utils

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

// SetHeaderNoCache sets the no cache header.
func SetHeaderNoCache(c *gin.Context) {
	c.Header("Expires", "Fri, 01 Jan 1980 00:00:00 GMT")
	c.Header("Pragma", "no-cache")
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
}

// SetHeaderCacheForever sets the cache forever header.
// Finished results never change, so their views can be cached by clients.
func SetHeaderCacheForever(c *gin.Context) {
	expires := time.Now().Add(365 * 24 * time.Hour)
	c.Header("Expires", expires.UTC().Format(time.RFC1123))
	c.Header("Cache-Control", fmt.Sprintf("private, max-age=%d, immutable", 31536000))
}
