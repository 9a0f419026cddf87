package models

import (
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string    `gorm:"uniqueIndex;not null" json:"name"`
	RepositoryPath string    `json:"repository_path"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null" json:"updated_at"`
}

// AccessLevel is a project member's permission level. Higher
// levels include every permission of the lower ones.
type AccessLevel int

const (
	AccessNone       AccessLevel = 0
	AccessGuest      AccessLevel = 10
	AccessReporter   AccessLevel = 20
	AccessDeveloper  AccessLevel = 30
	AccessMaintainer AccessLevel = 40
	AccessOwner      AccessLevel = 50
)

var accessLevelNames = map[AccessLevel]string{
	AccessNone:       "none",
	AccessGuest:      "guest",
	AccessReporter:   "reporter",
	AccessDeveloper:  "developer",
	AccessMaintainer: "maintainer",
	AccessOwner:      "owner",
}

func (a AccessLevel) String() string {
	if name, ok := accessLevelNames[a]; ok {
		return name
	}
	return "unknown"
}

// ParseAccessLevel converts a level name such as "developer"
// into its AccessLevel.
func ParseAccessLevel(name string) (AccessLevel, bool) {
	for level, n := range accessLevelNames {
		if n == name {
			return level, true
		}
	}
	return AccessNone, false
}

type ProjectMember struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID   uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_project_members_project_user" json:"project_id"`
	UserID      uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_project_members_project_user" json:"user_id"`
	AccessLevel AccessLevel `gorm:"not null" json:"access_level"`
	CreatedAt   time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"not null" json:"updated_at"`
}
