package models

import (
	"time"
)

// ChatMessage is one logged exchange. Rows are only ever inserted.
type ChatMessage struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CompanyID string    `json:"company_id" gorm:"size:36;not null;index:idx_chat_company_session,priority:1"`
	SessionID string    `json:"session_id" gorm:"size:100;not null;index:idx_chat_company_session,priority:2"`
	Message   string    `json:"message" gorm:"type:text"`
	Response  string    `json:"response" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName pins the table name
func (ChatMessage) TableName() string {
	return "chat_messages"
}

// All lists every persisted model, in migration order
func All() []any {
	return []any{&Company{}, &FAQ{}, &FAQKeyword{}, &ChatMessage{}}
}
