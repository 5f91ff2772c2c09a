package dto

import (
	"time"

	"github.com/noah-isme/lms-admin-api/internal/models"
)

// DashboardSummary is the admin landing page aggregate.
type DashboardSummary struct {
	TotalUsers   int                `json:"totalUsers"`
	TotalAdmins  int                `json:"totalAdmins"`
	TotalStaff   int                `json:"totalStaff"`
	RecentLogs   []models.ActionLog `json:"recentLogs"`
	LastActivity *time.Time         `json:"lastActivity,omitempty"`
}
