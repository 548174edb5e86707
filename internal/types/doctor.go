package types

import "time"

// Doctor is the local doctor profile. MasterDoctorID is the string identity
// of the same doctor in the externally-owned master database; it is filled
// in best-effort by the registration flow and may be empty.
type Doctor struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	MasterDoctorID string  `gorm:"column:master_doctor_id;size:64;index" json:"master_doctor_id"`
	FirstName      string  `gorm:"column:first_name;size:100;not null" json:"first_name"`
	LastName       string  `gorm:"column:last_name;size:100" json:"last_name"`
	Email          string  `gorm:"column:email;size:255;not null;uniqueIndex" json:"email"`
	WhatsappNumber string  `gorm:"column:whatsapp_number;size:20;not null" json:"whatsapp_number"`
	IMCNumber      string  `gorm:"column:imc_number;size:50" json:"imc_number"`
	PasswordHash   string  `gorm:"column:password_hash;size:100" json:"-"`
	PhotoPath      string  `gorm:"column:photo_path;size:255" json:"photo_path"`
	ClinicID       *uint   `gorm:"column:clinic_id;index" json:"clinic_id,omitempty"`
	Clinic         *Clinic `gorm:"constraint:OnDelete:SET NULL;foreignKey:ClinicID;references:ID" json:"clinic,omitempty"`
	IsActive       bool    `gorm:"column:is_active;not null" json:"is_active"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Doctor) TableName() string { return "doctor" }

// DisplayName is the name used in patient-facing WhatsApp messages.
func (d *Doctor) DisplayName() string {
	if d == nil {
		return ""
	}
	name := d.FirstName
	if d.LastName != "" {
		name += " " + d.LastName
	}
	return name
}
