package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	GenderMale        = "Male"
	GenderFemale      = "Female"
	GenderOther       = "Other"
	GenderUndisclosed = "Prefer not to say"
)

// Genders is the closed set accepted at registration.
var Genders = []string{GenderMale, GenderFemale, GenderOther, GenderUndisclosed}

type User struct {
	ID               uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserName         string    `gorm:"not null;column:user_name" json:"user_name"`
	Gender           string    `gorm:"not null;column:gender" json:"gender"`
	Age              int       `gorm:"not null;column:age" json:"age"`
	RegistrationTime time.Time `gorm:"not null;default:now();column:registration_time" json:"registration_time"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (User) TableName() string { return "users" }
