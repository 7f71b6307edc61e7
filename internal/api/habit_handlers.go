package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yourname/habittracker/internal/service"
)

func PostHabit(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.CreateHabitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, "Invalid JSON")
			return
		}
		habit, err := app.Habits().CreateHabit(c.Request.Context(), currentUser(c), &req)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to create habit")
			return
		}
		HandleSuccess(c, app.Logger(), http.StatusCreated, habit, nil)
	}
}

func GetHabits(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		habits, err := app.Habits().ListHabits(c.Request.Context(), currentUser(c))
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to list habits")
			return
		}
		HandleSuccess(c, app.Logger(), http.StatusOK, habits, nil)
	}
}

func GetHabit(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		habit, err := app.Habits().GetHabit(c.Request.Context(), currentUser(c), c.Param("id"))
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to fetch habit")
			return
		}
		HandleSuccess(c, app.Logger(), http.StatusOK, habit, nil)
	}
}

func PutHabit(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.UpdateHabitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, "Invalid JSON")
			return
		}
		habit, err := app.Habits().UpdateHabit(c.Request.Context(), currentUser(c), c.Param("id"), &req)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to update habit")
			return
		}
		HandleSuccess(c, app.Logger(), http.StatusOK, habit, nil)
	}
}

func DeleteHabit(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := app.Habits().ArchiveHabit(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
			HandleError(c, app.Logger(), err, "Failed to archive habit")
			return
		}
		HandleSuccess(c, app.Logger(), http.StatusOK, nil, map[string]any{"message": "Habit archived successfully"})
	}
}

func PostCompletion(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.CompleteHabitRequest
		// An empty body means "complete today".
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				HandleError(c, app.Logger(), err, "Invalid JSON")
				return
			}
		}
		completion, err := app.Habits().CompleteHabit(c.Request.Context(), currentUser(c), c.Param("id"), &req)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to record completion")
			return
		}
		HandleSuccess(c, app.Logger(), http.StatusCreated, completion, nil)
	}
}

func DeleteCompletion(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := app.Habits().UncompleteHabit(c.Request.Context(), currentUser(c), c.Param("id"), c.Param("date"))
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to remove completion")
			return
		}
		HandleSuccess(c, app.Logger(), http.StatusOK, nil, map[string]any{"message": "Completion removed successfully"})
	}
}

func GetHabitHistory(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.Query("limit"))
		history, err := app.Habits().GetHabitHistory(c.Request.Context(), currentUser(c), c.Param("id"), limit)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to fetch history")
			return
		}
		HandleSuccess(c, app.Logger(), http.StatusOK, history, nil)
	}
}

func GetHabitStreak(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := app.Habits().GetHabitStreak(c.Request.Context(), currentUser(c), c.Param("id"))
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to fetch streak")
			return
		}
		HandleSuccess(c, app.Logger(), http.StatusOK, summary, nil)
	}
}
