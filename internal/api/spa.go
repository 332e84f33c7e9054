package api

import (
	"net/http"      // HTTP status codes
	"os"            // File lookup
	"path"          // URL path cleaning
	"path/filepath" // Filesystem paths
	"strings"       // Prefix checks

	"github.com/gin-gonic/gin" // Gin web framework
)

// NotFoundHandler answers unknown routes. When dir holds a built SPA, GET
// requests outside /api are served from it, falling back to index.html so
// client-side routes survive a reload.
func NotFoundHandler(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := c.Request.URL.Path
		isPage := c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead
		if dir == "" || !isPage || p == "/api" || strings.HasPrefix(p, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"message": "Not Found"})
			return
		}
		file := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+p)))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}
		c.File(filepath.Join(dir, "index.html"))
	}
}
