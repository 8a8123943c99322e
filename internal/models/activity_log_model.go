package models

import "time"

// ActivityLog is one entry of a user's activity history.
type ActivityLog struct {
	ID                  string    `json:"id" firestore:"-"`
	UserID              string    `json:"userId" firestore:"userId"`
	ActivityDescription string    `json:"activityDescription" firestore:"activityDescription"`
	Timestamp           time.Time `json:"timestamp" firestore:"timestamp"`
}

// Fields returns the stored representation of the entry.
func (a ActivityLog) Fields() map[string]interface{} {
	return map[string]interface{}{
		"userId":              a.UserID,
		"activityDescription": a.ActivityDescription,
		"timestamp":           a.Timestamp,
	}
}
