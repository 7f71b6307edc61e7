package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PostRecalculateStreaks rebuilds every active habit's streak summary. Meant
// for operators after data repair or a policy migration.
func PostRecalculateStreaks(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := app.Streaks().RecalculateAllStreaks(c.Request.Context())
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to recalculate streaks")
			return
		}
		HandleSuccess(c, app.Logger(), http.StatusOK, map[string]any{"recalculated": count}, nil)
	}
}

func GetSystemStats(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := app.Analytics().GetSystemStats(c.Request.Context())
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to compute system stats")
			return
		}
		HandleSuccess(c, app.Logger(), http.StatusOK, stats, nil)
	}
}
