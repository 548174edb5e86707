package types

// VideoTriggerMap associates a video with triggers beyond its primary one.
type VideoTriggerMap struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	VideoID   uint     `gorm:"column:video_id;not null;uniqueIndex:uniq_video_trigger" json:"video_id"`
	TriggerID uint     `gorm:"column:trigger_id;not null;uniqueIndex:uniq_video_trigger" json:"trigger_id"`
	Trigger   *Trigger `gorm:"constraint:OnDelete:CASCADE;foreignKey:TriggerID;references:ID" json:"trigger,omitempty"`
	IsPrimary bool     `gorm:"column:is_primary;not null" json:"is_primary"`
	SortOrder int      `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
}

func (VideoTriggerMap) TableName() string { return "video_trigger_map" }
