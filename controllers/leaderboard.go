package controllers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"app/homework/models"
)

// ComputeLeaderboard counts done rows per user and sorts descending by
// count. The sort is stable, so users with equal counts keep their creation
// order.
func ComputeLeaderboard(db *gorm.DB) ([]models.LeaderboardEntry, error) {
	var users []models.User
	if err := db.Order("id").Find(&users).Error; err != nil {
		return nil, err
	}

	entries := make([]models.LeaderboardEntry, 0, len(users))
	for _, u := range users {
		var count int64
		err := db.Model(&models.HomeworkStatus{}).
			Where("user_id = ? AND status = ?", u.ID, models.StatusDone).
			Count(&count).Error
		if err != nil {
			return nil, err
		}
		entries = append(entries, models.LeaderboardEntry{Username: u.Username, Completed: int(count)})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Completed > entries[j].Completed
	})
	return entries, nil
}

// Leaderboard renders the ranking of users by completed assignments.
func (e *Env) Leaderboard(c *gin.Context) {
	entries, err := ComputeLeaderboard(e.DB)
	if err != nil {
		e.Log.Error().Err(err).Msg("failed to compute leaderboard")
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	c.HTML(http.StatusOK, "leaderboard.tmpl", gin.H{"Entries": entries})
}
