package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username string `gorm:"column:username;uniqueIndex;not null"`
	Email    string `gorm:"column:email;uniqueIndex;not null"`
	FullName string `gorm:"column:full_name;not null"`
	// Password holds the bcrypt hash, never the plaintext. It is stripped
	// from every response payload at the DTO boundary.
	Password   string `gorm:"column:password;not null"`
	Avatar     string `gorm:"column:avatar"`
	CoverImage string `gorm:"column:cover_image"`
	// RefreshToken is the single currently valid refresh token. Each login
	// or refresh overwrites it, implicitly revoking the previous one.
	RefreshToken string `gorm:"column:refresh_token"`
	// WatchHistory keeps video IDs in viewing order, most recent appended
	// last, duplicates suppressed.
	WatchHistory datatypes.JSONSlice[uint] `gorm:"column:watch_history"`
}
