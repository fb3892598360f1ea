package models

// ProfessionalType represents a category of service provider (lawyer,
// notary, ...) that professionals register under.
type ProfessionalType struct {
	BaseModel
	Name        string `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	Icon        string `gorm:"size:255" json:"icon,omitempty"`
}

// Professional represents the provider-side profile attached to a user
// account with the professional role.
type Professional struct {
	BaseModel
	UserID             string  `gorm:"size:36;uniqueIndex;not null" json:"userId"`
	ProfessionalTypeID string  `gorm:"size:36;not null;index" json:"professionalTypeId"`
	Experience         int     `gorm:"default:0" json:"experience"`
	HourlyRate         float64 `gorm:"default:0" json:"hourlyRate"`
	Rating             float64 `gorm:"default:0" json:"rating"`
	IsVerified         bool    `gorm:"default:false" json:"isVerified"`
	About              string  `gorm:"type:text" json:"about,omitempty"`
	Location           string  `gorm:"size:255" json:"location,omitempty"`

	// Relations
	User             *User             `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ProfessionalType *ProfessionalType `gorm:"foreignKey:ProfessionalTypeID" json:"professionalType,omitempty"`
}
