package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role enum
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleProfessional Role = "professional"
	RoleUser         Role = "user"
)

// User represents an account in the system, either a regular user,
// a professional or an admin.
type User struct {
	BaseModel
	Email        string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password     string `gorm:"size:255;not null" json:"-"` // Never send password in JSON
	FirstName    string `gorm:"size:100" json:"firstName"`
	LastName     string `gorm:"size:100" json:"lastName"`
	Role         Role   `gorm:"size:20;default:'user'" json:"role"`
	PhoneNumber  string `json:"phoneNumber,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`

	// Relations (not always preloaded)
	Professional     *Professional `gorm:"foreignKey:UserID" json:"-"`
	SentMessages     []Message     `gorm:"foreignKey:SenderID" json:"-"`
	ReceivedMessages []Message     `gorm:"foreignKey:ReceiverID" json:"-"`
}

// UserSanitized represents the user data that is safe to send in API responses.
type UserSanitized struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Role         Role      `json:"role"`
	PhoneNumber  string    `json:"phoneNumber,omitempty"`
	ProfileImage string    `json:"profileImage,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserBrief is the minimal sender/receiver projection attached to chat
// messages for list rendering.
type UserBrief struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// SetPassword hashes a password and sets it on the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword compares a password with the user's hashed password
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// Sanitize creates a UserSanitized struct from a User model, excluding sensitive data.
func (u *User) Sanitize() UserSanitized {
	return UserSanitized{
		ID:           u.ID,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Role:         u.Role,
		PhoneNumber:  u.PhoneNumber,
		ProfileImage: u.ProfileImage,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// Brief returns the minimal projection used by the chat endpoints.
func (u *User) Brief() UserBrief {
	return UserBrief{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}
