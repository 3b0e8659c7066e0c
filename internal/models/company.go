package models

import (
	"time"
)

// Company is the tenant boundary for FAQ rows and chat logs
type Company struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Name        string    `json:"name" gorm:"size:200;not null"`
	Description string    `json:"description" gorm:"type:text"`
	APIKeyHash  string    `json:"-" gorm:"size:100"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName pins the table name
func (Company) TableName() string {
	return "companies"
}
