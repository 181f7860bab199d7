// Package models defines GORM data models for Showcase.
package models

import (
	"time"
)

// Session is one browser's widget state, identified by the session cookie.
type Session struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	LastSeen  time.Time `gorm:"index" json:"last_seen"`

	Values []WidgetValue `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"values,omitempty"`
}

// WidgetValue is the resolved value of one input in a session.
// (SessionID, Key) is unique.
type WidgetValue struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	SessionID string `gorm:"size:36;not null;uniqueIndex:idx_session_key" json:"-"`
	Key       string `gorm:"not null;uniqueIndex:idx_session_key" json:"key"`
	Value     string `json:"value"`
}
