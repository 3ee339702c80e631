package scheduling

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"telehealth-server/internal/models"
)

// BookingRequest carries a validated booking submission.
type BookingRequest struct {
	PatientID string
	DoctorID  string
	Date      string // DateLayout
	Time      string // TimeLayout
	Modality  models.AppointmentModality
	Reason    string
}

// Book reserves a slot for a patient: it re-checks availability, inserts the
// appointment, then records the notification side effect.
//
// The appointment insert is the authoritative outcome. A uniqueness violation
// raised by the slot index after the pre-check passed (two requests racing
// for the same slot) is reported as ErrSlotUnavailable. Notification and mail
// failures after a successful insert are logged and swallowed.
func (s *Service) Book(req BookingRequest) (*models.Appointment, error) {
	weekday, err := weekdayOf(req.Date)
	if err != nil {
		return nil, err
	}

	profile, err := s.doctorProfile(req.DoctorID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("doctor %s: %w", req.DoctorID, ErrNotFound)
	}

	var patient models.User
	err = s.db.Where("id = ? AND role = ?", req.PatientID, models.RolePatient).First(&patient).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("patient %s: %w", req.PatientID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading patient: %w", err)
	}

	if !containsTime(profile.Availability[weekday], req.Time) {
		return nil, fmt.Errorf("time %s is not offered on %s: %w", req.Time, weekday, ErrSlotUnavailable)
	}

	taken, err := s.slotTaken(req.DoctorID, req.Date, req.Time)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSlotUnavailable
	}

	appointment := models.Appointment{
		PatientID: req.PatientID,
		DoctorID:  req.DoctorID,
		Date:      req.Date,
		Time:      req.Time,
		Modality:  req.Modality,
		Status:    models.StatusScheduled,
		Fee:       profile.ConsultationFee,
		Reason:    req.Reason,
	}
	if err := s.db.Create(&appointment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race between pre-check and insert.
			return nil, ErrSlotUnavailable
		}
		return nil, fmt.Errorf("creating appointment: %w", err)
	}

	summary := bookingSummary(&appointment, &profile.User)
	s.notify(&patient, summary, &appointment)

	return &appointment, nil
}

// notify records the in-app notification and kicks off confirmation mail.
// Neither may fail the booking.
func (s *Service) notify(patient *models.User, summary string, appointment *models.Appointment) {
	notification := models.Notification{
		UserID:   patient.ID,
		Title:    "Appointment booked",
		Message:  summary,
		Category: models.CategoryAppointment,
	}
	if err := s.db.Create(&notification).Error; err != nil {
		s.log.Warn().Err(err).
			Str("appointment_id", appointment.ID).
			Str("patient_id", patient.ID).
			Msg("failed to create booking notification")
	}

	if s.mailer == nil {
		return
	}
	to, name := patient.Email, patient.FullName()
	go func() {
		if err := s.mailer.SendAppointmentConfirmation(to, name, summary); err != nil {
			s.log.Warn().Err(err).Str("recipient", to).Msg("failed to send confirmation mail")
		}
	}()
}

// bookingSummary renders the human-readable confirmation line.
func bookingSummary(a *models.Appointment, doctor *models.User) string {
	day, _ := time.Parse(DateLayout, a.Date)
	return fmt.Sprintf("Your %s appointment with Dr. %s on %s at %s has been booked.",
		modalityLabel(a.Modality), doctor.LastName, day.Format("Monday, January 2, 2006"), a.Time)
}

func modalityLabel(m models.AppointmentModality) string {
	return strings.ReplaceAll(string(m), "_", "-")
}

func containsTime(times []string, t string) bool {
	for _, candidate := range times {
		if candidate == t {
			return true
		}
	}
	return false
}

// UpdateStatus applies a lifecycle transition to an appointment.
//
// The only legal transitions are scheduled -> cancelled, completed or
// no_show; cancelled, completed and no_show are terminal. A rejected
// transition leaves the stored row untouched. Cancelling clears the slot
// key, which frees the slot for re-booking.
func (s *Service) UpdateStatus(appointmentID string, target models.AppointmentStatus) (*models.Appointment, error) {
	var appointment models.Appointment
	err := s.db.First(&appointment, "id = ?", appointmentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("appointment %s: %w", appointmentID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading appointment: %w", err)
	}

	if appointment.Status != models.StatusScheduled {
		return nil, fmt.Errorf("appointment is %s: %w", appointment.Status, ErrInvalidTransition)
	}
	switch target {
	case models.StatusCancelled, models.StatusCompleted, models.StatusNoShow:
	default:
		return nil, fmt.Errorf("cannot move to %s: %w", target, ErrInvalidTransition)
	}

	appointment.Status = target
	if err := s.db.Save(&appointment).Error; err != nil {
		return nil, fmt.Errorf("updating appointment status: %w", err)
	}
	return &appointment, nil
}

// ListForPatient returns a patient's appointments, newest first.
func (s *Service) ListForPatient(patientID string) ([]models.Appointment, error) {
	return s.list("patient_id = ?", patientID)
}

// ListForDoctor returns a doctor's appointments, newest first.
func (s *Service) ListForDoctor(doctorID string) ([]models.Appointment, error) {
	return s.list("doctor_id = ?", doctorID)
}

func (s *Service) list(query string, arg string) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := s.db.Preload("Patient").Preload("Doctor").
		Where(query, arg).
		Order("date desc, time desc").
		Find(&appointments).Error
	if err != nil {
		return nil, fmt.Errorf("listing appointments: %w", err)
	}
	return appointments, nil
}

// Get loads a single appointment with its participants.
func (s *Service) Get(appointmentID string) (*models.Appointment, error) {
	var appointment models.Appointment
	err := s.db.Preload("Patient").Preload("Doctor").First(&appointment, "id = ?", appointmentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("appointment %s: %w", appointmentID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading appointment: %w", err)
	}
	return &appointment, nil
}
