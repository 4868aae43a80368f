package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"app/homework/models"
)

// UserStatuses returns the statuses the user has ever set, keyed by
// assignment id. Untouched assignments are simply absent.
func UserStatuses(db *gorm.DB, userID uint) (map[uint]models.Status, error) {
	var rows []models.HomeworkStatus
	if err := db.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}
	statuses := make(map[uint]models.Status, len(rows))
	for _, r := range rows {
		statuses[r.AssignmentID] = r.Status
	}
	return statuses, nil
}

// Dashboard lists all assignments together with the current user's statuses.
func (e *Env) Dashboard(c *gin.Context) {
	user := CurrentUser(c)

	var assignments []models.Assignment
	if err := e.DB.Find(&assignments).Error; err != nil {
		e.Log.Error().Err(err).Msg("failed to list assignments")
		c.String(http.StatusInternalServerError, "internal error")
		return
	}

	statuses, err := UserStatuses(e.DB, user.ID)
	if err != nil {
		e.Log.Error().Err(err).Msg("failed to load statuses")
		c.String(http.StatusInternalServerError, "internal error")
		return
	}

	c.HTML(http.StatusOK, "dashboard.tmpl", gin.H{
		"User":        user,
		"IsAdmin":     user.Role == models.RoleAdmin,
		"Assignments": assignments,
		"Statuses":    statuses,
		"Flash":       takeFlash(c),
	})
}
