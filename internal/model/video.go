package model

import "gorm.io/gorm"

type Video struct {
	gorm.Model
	// OwnerID is immutable after creation; the owner is the only principal
	// permitted to mutate or delete the video.
	OwnerID     uint   `gorm:"column:owner_id;index;not null"`
	Owner       User   `gorm:"foreignKey:OwnerID"`
	Title       string `gorm:"column:title;not null"`
	Description string `gorm:"column:description"`
	VideoFile   string `gorm:"column:video_file;not null"`
	Thumbnail   string `gorm:"column:thumbnail"`
	// Duration in seconds, derived from the uploaded media at ingest time.
	Duration    float64 `gorm:"column:duration"`
	Views       int64   `gorm:"column:views;default:0;not null"`
	IsPublished bool    `gorm:"column:is_published;default:true;not null"`
}
