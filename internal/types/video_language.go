package types

// VideoLanguage carries the localized title and source URL for one
// (video, language) pair.
type VideoLanguage struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	VideoID      uint   `gorm:"column:video_id;not null;uniqueIndex:uniq_video_language" json:"video_id"`
	LanguageCode string `gorm:"column:language_code;size:10;not null;uniqueIndex:uniq_video_language" json:"language_code"`
	Title        string `gorm:"column:title;size:255;not null" json:"title"`
	YoutubeURL   string `gorm:"column:youtube_url;size:255;not null" json:"youtube_url"`
}

func (VideoLanguage) TableName() string { return "video_language" }
