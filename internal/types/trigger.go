package types

import "time"

// Trigger is a clinical scenario doctors select when sharing content.
// Both parent references are required; triggers cannot be deleted while
// video clusters still reference them (enforced in the admin service).
type Trigger struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	Code             string          `gorm:"column:code;size:80;not null;uniqueIndex" json:"code"`
	PrimaryTherapyID uint            `gorm:"column:primary_therapy_id;not null;index" json:"primary_therapy_id"`
	PrimaryTherapy   *TherapyArea    `gorm:"constraint:OnDelete:RESTRICT;foreignKey:PrimaryTherapyID;references:ID" json:"primary_therapy,omitempty"`
	ClusterID        uint            `gorm:"column:cluster_id;not null;index" json:"cluster_id"`
	Cluster          *TriggerCluster `gorm:"constraint:OnDelete:RESTRICT;foreignKey:ClusterID;references:ID" json:"cluster,omitempty"`

	// SubtopicTitle is the patient-facing page title; DoctorTriggerLabel is
	// what doctors see in the trigger list.
	SubtopicTitle      string `gorm:"column:subtopic_title;size:255;not null" json:"subtopic_title"`
	DoctorTriggerLabel string `gorm:"column:doctor_trigger_label;size:180;not null" json:"doctor_trigger_label"`

	NavigationPathways string `gorm:"column:navigation_pathways" json:"navigation_pathways"`
	SearchKeywords     string `gorm:"column:search_keywords" json:"search_keywords"`
	IsActive           bool   `gorm:"column:is_active;not null" json:"is_active"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Trigger) TableName() string { return "trigger" }
