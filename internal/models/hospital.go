package models

// Hospital represents a clinic or hospital that doctors can be attached to.
type Hospital struct {
	BaseModel
	Name        string `gorm:"size:255;not null" json:"name"`
	Address     string `gorm:"size:255" json:"address"`
	PhoneNumber string `gorm:"size:30" json:"phoneNumber,omitempty"`

	Doctors []DoctorProfile `gorm:"foreignKey:HospitalID" json:"-"`
}
