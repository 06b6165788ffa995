package handlers

import (
	"log"
	"net/http"
	"time"

	"farmbasket_back_end/internal/services"

	"github.com/gin-gonic/gin"
)

// 🟠 POST /api/images/upload (farmer key): produce and farmer photos
func UploadImage(c *gin.Context) {
	folder := c.DefaultPostForm("folder", "produce")
	if folder != "produce" && folder != "farmers" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid folder"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file"})
		return
	}

	url, err := services.UploadImage(c.Request.Context(), folder, file)
	if err != nil {
		log.Println("❌ Image upload error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": url})
}

// 🟢 GET /api/images/signed-url?path=
func SignedImageURL(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing path"})
		return
	}

	url, err := services.GenerateSignedURL(c.Request.Context(), path, 15*time.Minute)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not sign URL"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
