package models

import (
	"time"
)

// DefaultCategory is assigned to FAQs uploaded without one
const DefaultCategory = "General"

// FAQ is one company-scoped question/answer pair
type FAQ struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CompanyID string    `json:"company_id" gorm:"size:36;not null;index:idx_faq_company_updated,priority:1"`
	Question  string    `json:"question" gorm:"type:text;not null"`
	Answer    string    `json:"answer" gorm:"type:text;not null"`
	Category  string    `json:"category" gorm:"size:100;default:General"`
	Keywords  []string  `json:"keywords" gorm:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"index:idx_faq_company_updated,priority:2"`

	KeywordRows []FAQKeyword `json:"-" gorm:"foreignKey:FAQID;constraint:OnDelete:CASCADE"`
}

// TableName pins the table name
func (FAQ) TableName() string {
	return "faq"
}

// FAQKeyword stores one normalized keyword of an FAQ. CompanyID is duplicated
// from the parent row so keyword lookups filter by tenant without a join.
type FAQKeyword struct {
	ID        uint   `gorm:"primaryKey"`
	FAQID     uint   `gorm:"not null;index"`
	CompanyID string `gorm:"size:36;not null;index:idx_faq_keyword_lookup,priority:1"`
	Keyword   string `gorm:"size:100;not null;index:idx_faq_keyword_lookup,priority:2"`
}

// TableName pins the table name
func (FAQKeyword) TableName() string {
	return "faq_keywords"
}
