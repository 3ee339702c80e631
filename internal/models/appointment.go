package models

import (
	"fmt"

	"gorm.io/gorm"
)

// AppointmentStatus represents the lifecycle status of an appointment
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no_show"
)

// AppointmentModality represents how the consultation takes place
type AppointmentModality string

const (
	ModalityVideo    AppointmentModality = "video"
	ModalityInPerson AppointmentModality = "in_person"
	ModalityPhone    AppointmentModality = "phone"
)

// Appointment represents a reserved consultation slot.
//
// SlotKey is the storage-level enforcement of the one-scheduled-appointment-
// per-slot rule: it is set to "doctorID|date|time" while the appointment is
// scheduled and NULL otherwise, under a unique index. NULLs never collide, so
// cancelled and resolved appointments stop blocking the slot automatically.
type Appointment struct {
	BaseModel
	PatientID string              `gorm:"size:36;index" json:"patientId"`
	DoctorID  string              `gorm:"size:36;index" json:"doctorId"`
	Date      string              `gorm:"size:10;not null" json:"date"` // "2006-01-02"
	Time      string              `gorm:"size:5;not null" json:"time"`  // "15:04"
	Modality  AppointmentModality `gorm:"size:20;default:'video'" json:"modality"`
	Status    AppointmentStatus   `gorm:"size:20;default:'scheduled'" json:"status"`
	Fee       float64             `json:"fee"`
	Reason    string              `gorm:"size:255" json:"reason"`
	Notes     string              `gorm:"type:text" json:"notes"`
	SlotKey   *string             `gorm:"size:100;uniqueIndex" json:"-"`

	// Relations
	Patient User `gorm:"foreignKey:PatientID" json:"-"`
	Doctor  User `gorm:"foreignKey:DoctorID" json:"-"`
}

// BeforeSave keeps SlotKey in sync with the lifecycle status.
func (a *Appointment) BeforeSave(tx *gorm.DB) error {
	if a.Status == StatusScheduled {
		key := fmt.Sprintf("%s|%s|%s", a.DoctorID, a.Date, a.Time)
		a.SlotKey = &key
		return nil
	}
	a.SlotKey = nil
	return nil
}
