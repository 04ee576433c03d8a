package main

import (
	"os"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// setupStaticFiles serves the web frontend from ./web when it exists. The
// API works standalone without it.
func setupStaticFiles(router *gin.Engine) {
	if _, err := os.Stat("./web/index.html"); err != nil {
		log.Println("⚠️  No ./web frontend found - serving API only")
		router.NoRoute(func(c *gin.Context) {
			if len(c.Request.URL.Path) >= 4 && c.Request.URL.Path[:4] == "/api" {
				c.JSON(404, gin.H{"error": "API endpoint not found"})
				return
			}
			c.JSON(200, gin.H{"message": "Frontend not built. API is running."})
		})
		return
	}

	log.Println("🌐 Serving frontend from ./web")
	router.Static("/static", "./web/static")
	router.StaticFile("/", "./web/index.html")
	router.StaticFile("/favicon.ico", "./web/static/favicon.ico")
}
