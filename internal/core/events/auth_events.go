package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventUserLoggedIn           = "auth.user_logged_in"
	EventTokenReplayDetected    = "auth.token_replay_detected"
	EventPasswordResetRequested = "auth.password_reset_requested"
	EventPasswordResetCompleted = "auth.password_reset_completed"
)

func NewUserLoggedInEvent(userID, tenantID int64, ipAddress string) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventUserLoggedIn,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"user_id":    userID,
			"tenant_id":  tenantID,
			"ip_address": ipAddress,
		},
	}
}

func NewTokenReplayDetectedEvent(tokenID string, userID int64, ipAddress string) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventTokenReplayDetected,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"token_id":   tokenID,
			"user_id":    userID,
			"ip_address": ipAddress,
		},
	}
}

// NewPasswordResetRequestedEvent carries the raw reset token to the mail
// subscriber. The raw secret exists only in flight; storage keeps the hash.
func NewPasswordResetRequestedEvent(userID int64, email, name, rawToken string) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventPasswordResetRequested,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"user_id": userID,
			"email":   email,
			"name":    name,
			"token":   rawToken,
		},
	}
}

func NewPasswordResetCompletedEvent(userID int64) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventPasswordResetCompleted,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"user_id": userID,
		},
	}
}
