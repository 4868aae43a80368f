package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"app/homework/models"
)

// CreateAssignment validates the form and inserts the assignment.
func CreateAssignment(db *gorm.DB, form models.AssignmentForm) (models.Assignment, error) {
	if strings.TrimSpace(form.Title) == "" {
		return models.Assignment{}, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if _, err := time.Parse(models.DeadlineLayout, form.Deadline); err != nil {
		return models.Assignment{}, fmt.Errorf("%w: deadline must match YYYY-MM-DD HH:MM", ErrValidation)
	}

	assignment := models.Assignment{
		Title:       form.Title,
		Description: form.Description,
		Deadline:    form.Deadline,
	}
	if err := db.Create(&assignment).Error; err != nil {
		return models.Assignment{}, err
	}
	return assignment, nil
}

// AssignmentsPage renders the admin form plus all existing assignments.
func (e *Env) AssignmentsPage(c *gin.Context) {
	var assignments []models.Assignment
	if err := e.DB.Find(&assignments).Error; err != nil {
		e.Log.Error().Err(err).Msg("failed to list assignments")
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	c.HTML(http.StatusOK, "assignments.tmpl", gin.H{
		"Assignments": assignments,
		"Flash":       takeFlash(c),
	})
}

// CreateAssignmentHandler handles the admin form submission.
func (e *Env) CreateAssignmentHandler(c *gin.Context) {
	var form models.AssignmentForm
	if err := c.ShouldBind(&form); err != nil {
		setFlash(c, "Title and deadline are required")
		c.Redirect(http.StatusFound, "/assignments")
		return
	}

	assignment, err := CreateAssignment(e.DB, form)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			setFlash(c, err.Error())
			c.Redirect(http.StatusFound, "/assignments")
			return
		}
		e.Log.Error().Err(err).Msg("failed to create assignment")
		c.String(http.StatusInternalServerError, "internal error")
		return
	}

	if err := e.Notifier.AssignmentCreated(c.Request.Context(), assignment); err != nil {
		// Notification failure must not fail the request.
		e.Log.Warn().Err(err).Uint("assignment_id", assignment.ID).Msg("sns publish failed")
	}

	e.Log.Info().Uint("assignment_id", assignment.ID).Str("title", assignment.Title).Msg("assignment created")
	setFlash(c, "Assignment added!")
	c.Redirect(http.StatusFound, "/assignments")
}
