package server

import (
	"github.com/gin-gonic/gin"

	"github.com/eventify/eventify-go/internal/pkg/config"
)

// SetupUploads exposes the on-disk storage root at /uploads so avatar and
// image URLs returned by the API resolve against this server.
func SetupUploads(r *gin.Engine, cfg *config.Config) {
	r.Static("/uploads", cfg.Storage.UploadDir)
}
