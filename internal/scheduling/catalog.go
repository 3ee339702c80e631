package scheduling

import (
	"fmt"

	"telehealth-server/internal/models"
)

// Slot is a template time annotated with current availability.
type Slot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// SlotsForDay derives the bookable slots for a doctor on a calendar date.
//
// A doctor without a profile or without template times for that weekday
// yields an empty list, not an error; the client renders that as "no slots
// for this day". Template order is the doctor's declared display order and
// is preserved.
func (s *Service) SlotsForDay(doctorID, date string) ([]Slot, error) {
	weekday, err := weekdayOf(date)
	if err != nil {
		return nil, err
	}

	profile, err := s.doctorProfile(doctorID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return []Slot{}, nil
	}

	times := profile.Availability[weekday]
	if len(times) == 0 {
		return []Slot{}, nil
	}

	booked, err := s.scheduledTimes(doctorID, date)
	if err != nil {
		return nil, err
	}

	slots := make([]Slot, 0, len(times))
	for _, t := range times {
		slots = append(slots, Slot{Time: t, Available: !booked[t]})
	}
	return slots, nil
}

// scheduledTimes returns the set of start times already holding a scheduled
// appointment for the doctor on the given date.
func (s *Service) scheduledTimes(doctorID, date string) (map[string]bool, error) {
	var times []string
	err := s.db.Model(&models.Appointment{}).
		Where("doctor_id = ? AND date = ? AND status = ?", doctorID, date, models.StatusScheduled).
		Pluck("time", &times).Error
	if err != nil {
		return nil, fmt.Errorf("loading scheduled times: %w", err)
	}

	set := make(map[string]bool, len(times))
	for _, t := range times {
		set[t] = true
	}
	return set, nil
}
