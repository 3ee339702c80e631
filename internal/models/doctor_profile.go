package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// WeeklyTemplate maps a lowercase weekday name ("monday") to the ordered list
// of bookable start times ("09:00") the doctor offers on that day. The declared
// order is the display order and must be preserved as-is.
type WeeklyTemplate map[string][]string

// Value implements driver.Valuer so the template is stored as a JSON column.
func (t WeeklyTemplate) Value() (driver.Value, error) {
	if t == nil {
		return nil, nil
	}
	b, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (t *WeeklyTemplate) Scan(value interface{}) error {
	if value == nil {
		*t = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	default:
		return fmt.Errorf("unsupported type %T for WeeklyTemplate", value)
	}
}

// DoctorProfile holds the practice details a doctor exposes for booking.
type DoctorProfile struct {
	BaseModel
	UserID          string         `gorm:"size:36;uniqueIndex" json:"userId"`
	Specialization  string         `gorm:"size:100" json:"specialization"`
	ConsultationFee float64        `json:"consultationFee"`
	HospitalID      *string        `gorm:"size:36;index" json:"hospitalId,omitempty"`
	Availability    WeeklyTemplate `gorm:"type:json" json:"availability"`

	User     User      `gorm:"foreignKey:UserID" json:"-"`
	Hospital *Hospital `gorm:"foreignKey:HospitalID" json:"-"`
}
