package types

import (
	"regexp"
	"strings"
	"time"
)

// TherapyArea is the root classification axis of the catalog.
type TherapyArea struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Code        string    `gorm:"column:code;size:50;not null;uniqueIndex" json:"code"`
	DisplayName string    `gorm:"column:display_name;size:100;not null" json:"display_name"`
	Description string    `gorm:"column:description" json:"description"`
	SortOrder   int       `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
	IsActive    bool      `gorm:"column:is_active;not null" json:"is_active"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (TherapyArea) TableName() string { return "therapy_area" }

var nonCodeChars = regexp.MustCompile(`[^A-Z0-9]+`)

// TherapyAreaCodeFromName derives a stable code from a display name:
// "Pediatric Cardiology" -> "PEDIATRIC_CARDIOLOGY".
func TherapyAreaCodeFromName(name string) string {
	code := nonCodeChars.ReplaceAllString(strings.ToUpper(strings.TrimSpace(name)), "_")
	code = strings.Trim(code, "_")
	if len(code) > 50 {
		code = code[:50]
	}
	return code
}
