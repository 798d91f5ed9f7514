package api

import (
	"github.com/gin-gonic/gin"
)

// Config holds application configuration
type Config struct {
	Port           string
	MaxFileSize    int64
	TempDir        string
	OutputDir      string
	MinImageSizeKB int
	FilterLogos    bool
}

func SetupRoutes(r *gin.Engine, config *Config, store *Store) {
	apiGroup := r.Group("/api")
	{
		apiGroup.POST("/pdf/extract", func(c *gin.Context) { HandleExtract(c, config, store) })
		apiGroup.GET("/pdf/progress/:id", func(c *gin.Context) { HandleProgress(c, store) })
		apiGroup.GET("/images/:id", func(c *gin.Context) { HandleListImages(c, store) })
		apiGroup.GET("/images/:id/:name", func(c *gin.Context) { HandleDownloadImage(c, store) })
		apiGroup.POST("/images/:id/zip", func(c *gin.Context) { HandleDownloadZip(c, store) })
	}
}
