package types

// VideoClusterLanguage carries the localized bundle name for one
// (cluster, language) pair.
type VideoClusterLanguage struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	VideoClusterID uint   `gorm:"column:video_cluster_id;not null;uniqueIndex:uniq_cluster_language" json:"video_cluster_id"`
	LanguageCode   string `gorm:"column:language_code;size:10;not null;uniqueIndex:uniq_cluster_language" json:"language_code"`
	Name           string `gorm:"column:name;size:255;not null" json:"name"`
}

func (VideoClusterLanguage) TableName() string { return "video_cluster_language" }
