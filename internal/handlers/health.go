package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskhub-dev/taskhub/db"
)

func HealthCheck(c *gin.Context) {
	database := "up"

	if sqlDB, err := db.DB.DB(); err != nil || sqlDB.Ping() != nil {
		database = "down"
	}

	c.JSON(200, gin.H{
		"status":    "ok",
		"message":   "Taskhub is running",
		"database":  database,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
