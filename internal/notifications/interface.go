package notifications

import "github.com/feedback-insights/dashboard/internal/models"

// NotificationInterface defines the contract for digest delivery
type NotificationInterface interface {
	SendDigest(digest *models.Digest) error
}
