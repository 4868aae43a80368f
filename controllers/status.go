package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"app/homework/models"
)

// SetStatus upserts the status row for (userID, assignmentID) in a single
// statement, relying on the composite unique index.
func SetStatus(db *gorm.DB, userID, assignmentID uint, status models.Status) error {
	if !models.ValidStatus(status) {
		return ErrValidation
	}
	row := models.HomeworkStatus{
		UserID:       userID,
		AssignmentID: assignmentID,
		Status:       status,
	}
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "assignment_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}),
	}).Create(&row).Error
}

// UpdateStatus marks an assignment done or pending for the current user and
// returns to the dashboard. Bad ids and unknown status values redirect
// without writing anything.
func (e *Env) UpdateStatus(c *gin.Context) {
	user := CurrentUser(c)

	id, err := strconv.ParseUint(c.Param("assignment_id"), 10, 64)
	if err != nil {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	status := models.Status(c.Param("status"))
	if !models.ValidStatus(status) {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}

	var assignment models.Assignment
	if err := e.DB.First(&assignment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.Redirect(http.StatusFound, "/dashboard")
			return
		}
		e.Log.Error().Err(err).Msg("failed to load assignment")
		c.String(http.StatusInternalServerError, "internal error")
		return
	}

	if err := SetStatus(e.DB, user.ID, assignment.ID, status); err != nil {
		e.Log.Error().Err(err).Msg("failed to set status")
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	c.Redirect(http.StatusFound, "/dashboard")
}
