package types

import "time"

// Clinic is the local clinic profile captured at doctor registration.
type Clinic struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Name              string    `gorm:"column:name;size:255;not null" json:"name"`
	Phone             string    `gorm:"column:phone;size:20" json:"phone"`
	AppointmentNumber string    `gorm:"column:appointment_number;size:20" json:"appointment_number"`
	Address           string    `gorm:"column:address" json:"address"`
	PostalCode        string    `gorm:"column:postal_code;size:10" json:"postal_code"`
	State             string    `gorm:"column:state;size:100" json:"state"`
	District          string    `gorm:"column:district;size:100" json:"district"`
	CreatedAt         time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time `gorm:"not null" json:"updated_at"`
}

func (Clinic) TableName() string { return "clinic" }
