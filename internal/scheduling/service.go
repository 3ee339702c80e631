// Package scheduling implements the appointment booking workflow: deriving
// bookable slots from a doctor's weekly availability template, the optimistic
// re-check at booking time, and the appointment ledger with its status
// lifecycle and notification side effects.
package scheduling

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"telehealth-server/internal/mailer"
	"telehealth-server/internal/models"
)

const (
	// DateLayout is the wire format for appointment dates.
	DateLayout = "2006-01-02"
	// TimeLayout is the wire format for appointment start times.
	TimeLayout = "15:04"
)

// Service carries the booking workflow. It holds no state of its own; the
// appointments table is the single shared resource and its unique slot index
// is the real enforcement point for double-booking.
type Service struct {
	db     *gorm.DB
	log    zerolog.Logger
	mailer mailer.Mailer
}

// NewService creates a scheduling service. mailer may be nil to disable
// confirmation mail.
func NewService(db *gorm.DB, log zerolog.Logger, m mailer.Mailer) *Service {
	return &Service{db: db, log: log, mailer: m}
}

// weekdayOf resolves the lowercase weekday name used as a template key.
func weekdayOf(date string) (string, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", date, err)
	}
	return strings.ToLower(d.Weekday().String()), nil
}

// doctorProfile loads the booking-facing profile of a doctor, or nil when
// the doctor has no profile.
func (s *Service) doctorProfile(doctorID string) (*models.DoctorProfile, error) {
	var profile models.DoctorProfile
	err := s.db.Preload("User").Where("user_id = ?", doctorID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading doctor profile: %w", err)
	}
	return &profile, nil
}
