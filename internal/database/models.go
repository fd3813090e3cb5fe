package database

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User is an account record. Accounts start unverified; the stored
// verification token is cleared once the email round trip completes.
type User struct {
	gorm.Model
	Name              string `gorm:"size:128"`
	Email             string `gorm:"uniqueIndex;size:255"`
	PasswordHash      string `gorm:"size:255"`
	IsVerified        bool   `gorm:"default:false"`
	VerificationToken string `gorm:"size:1024"`
	IsLoggedIn        bool   `gorm:"default:false"`
	IsAdmin           bool   `gorm:"default:false"`
	LastLogin         time.Time
	Resumes           []Resume `gorm:"constraint:OnDelete:CASCADE"`
}

// Session tracks the single active login per user. Login deletes any
// existing row before creating a new one, so at most one survives.
type Session struct {
	gorm.Model
	UserID uint `gorm:"index"`
	User   User `gorm:"constraint:OnDelete:CASCADE"`
}

// Resume holds one resume per row. The structured document lives in
// Content (JSONB); binary artifacts are stored through the blob store
// and referenced here by object key plus a public retrieval link.
type Resume struct {
	gorm.Model
	Title  string `gorm:"size:255"`
	UserID uint   `gorm:"index"`
	User   User   `gorm:"constraint:OnDelete:CASCADE"`

	Content datatypes.JSON `gorm:"type:jsonb"`

	ThumbnailKey         string `gorm:"size:512"`
	ThumbnailContentType string `gorm:"size:128"`
	ThumbnailLink        string `gorm:"size:512"`

	ProfileImageKey         string `gorm:"size:512"`
	ProfileImageContentType string `gorm:"size:128"`
	ProfileImageLink        string `gorm:"size:512"`

	PdfKey string `gorm:"size:512"`
}
