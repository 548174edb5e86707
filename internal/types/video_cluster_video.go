package types

// VideoClusterVideo is the ordered membership of a video in a bundle.
type VideoClusterVideo struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	VideoClusterID uint   `gorm:"column:video_cluster_id;not null;uniqueIndex:uniq_cluster_video" json:"video_cluster_id"`
	VideoID        uint   `gorm:"column:video_id;not null;uniqueIndex:uniq_cluster_video" json:"video_id"`
	Video          *Video `gorm:"constraint:OnDelete:CASCADE;foreignKey:VideoID;references:ID" json:"video,omitempty"`
	SortOrder      int    `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
}

func (VideoClusterVideo) TableName() string { return "video_cluster_video" }
