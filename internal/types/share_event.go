package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ShareEvent records one outbound share (WhatsApp or email) of catalog
// content by a doctor. Payload holds the shared video/bundle codes and the
// rendered message as sent, for audit.
type ShareEvent struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	DoctorID     *uint          `gorm:"column:doctor_id;index" json:"doctor_id,omitempty"`
	Doctor       *Doctor        `gorm:"constraint:OnDelete:SET NULL;foreignKey:DoctorID;references:ID" json:"doctor,omitempty"`
	Channel      string         `gorm:"column:channel;size:20;not null" json:"channel"`
	LanguageCode string         `gorm:"column:language_code;size:10;not null" json:"language_code"`
	Payload      datatypes.JSON `gorm:"column:payload" json:"payload"`
	CreatedAt    time.Time      `gorm:"not null" json:"created_at"`
}

func (ShareEvent) TableName() string { return "share_event" }

const (
	ShareChannelWhatsapp = "whatsapp"
	ShareChannelEmail    = "email"
)
