package store

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PromptStatus is the moderation state of a prompt.
type PromptStatus string

const (
	StatusPending  PromptStatus = "pending"
	StatusApproved PromptStatus = "approved"
	StatusRejected PromptStatus = "rejected"
)

// Valid reports whether s is one of the moderation states.
func (s PromptStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// LinkType distinguishes video resources from plain websites.
type LinkType string

const (
	LinkVideo   LinkType = "video"
	LinkWebsite LinkType = "website"
)

// User is a registered identity. PasswordHash never leaves the server.
type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-" yaml:"-"`
	IsAdmin      bool      `gorm:"not null;default:false" json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Drill is a practice exercise attached to a prompt.
type Drill struct {
	Icon string `json:"icon"`
	Text string `json:"text"`
}

// Link is an external resource attached to a prompt.
type Link struct {
	Title   string   `json:"title"`
	URL     string   `json:"url"`
	Type    LinkType `json:"type"`
	VideoID string   `json:"videoId,omitempty"`
}

// Prompt is a dance practice concept.
type Prompt struct {
	ID          string                      `gorm:"primaryKey;size:36" json:"id"`
	Label       string                      `gorm:"size:255;not null;index" json:"label"`
	Description string                      `gorm:"type:text;not null" json:"description"`
	Tips        datatypes.JSONSlice[string] `json:"tips"`
	Drills      datatypes.JSONSlice[Drill]  `json:"drills"`
	Links       datatypes.JSONSlice[Link]   `json:"links"`
	SubmittedBy *string                     `gorm:"size:36;index" json:"submittedBy"`
	Status      PromptStatus                `gorm:"size:16;not null;index;default:pending" json:"status"`
	Likes       int64                       `gorm:"not null;default:0" json:"likes"`
	Views       int64                       `gorm:"not null;default:0" json:"views"`
	CreatedAt   time.Time                   `gorm:"index" json:"createdAt"`

	// IsFavorited is computed per request for the identity passed as userId.
	IsFavorited bool `gorm:"-" json:"isFavorited"`
}

// AfterFind replaces null JSON columns with empty lists.
func (p *Prompt) AfterFind(tx *gorm.DB) error {
	if p.Tips == nil {
		p.Tips = datatypes.JSONSlice[string]{}
	}
	if p.Drills == nil {
		p.Drills = datatypes.JSONSlice[Drill]{}
	}
	if p.Links == nil {
		p.Links = datatypes.JSONSlice[Link]{}
	}
	return nil
}

// Favorite links a user to a prompt. The composite key keeps the relation a set.
type Favorite struct {
	UserID    string    `gorm:"primaryKey;size:36"`
	PromptID  string    `gorm:"primaryKey;size:36;index"`
	CreatedAt time.Time `gorm:"index"`
}

// StatsSnapshotID is the key of the single stats row.
const StatsSnapshotID = "global"

// StatSnapshot holds aggregate counters over approved prompts.
type StatSnapshot struct {
	ID           string    `gorm:"primaryKey;size:16" json:"-" yaml:"-"`
	TotalPrompts int64     `gorm:"not null;default:0" json:"totalPrompts"`
	TotalUsers   int64     `gorm:"not null;default:0" json:"totalUsers"`
	TotalViews   int64     `gorm:"not null;default:0" json:"totalViews"`
	TotalLikes   int64     `gorm:"not null;default:0" json:"totalLikes"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime:false" json:"updatedAt"`
}

// Models lists every table managed by AutoMigrate.
func Models() []any {
	return []any{&User{}, &Prompt{}, &Favorite{}, &StatSnapshot{}}
}
