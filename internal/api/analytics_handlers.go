package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func GetUserStats(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := app.Analytics().GetUserStats(c.Request.Context(), currentUser(c))
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to compute user stats")
			return
		}
		HandleSuccess(c, app.Logger(), http.StatusOK, stats, nil)
	}
}

func GetHabitAnalytics(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		analytics, err := app.Analytics().GetHabitAnalytics(c.Request.Context(), currentUser(c), c.Param("id"))
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to compute habit analytics")
			return
		}
		HandleSuccess(c, app.Logger(), http.StatusOK, analytics, nil)
	}
}
