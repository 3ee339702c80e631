package scheduling

import (
	"fmt"

	"telehealth-server/internal/models"
)

// slotTaken is the optimistic pre-check performed at the moment of booking:
// does any scheduled appointment already hold (doctor, date, time)?
//
// This check is advisory. Two requests can both pass it and race to insert;
// the unique slot index on the appointments table rejects the loser. A failed
// check aborts the booking — it never falls through to the insert.
func (s *Service) slotTaken(doctorID, date, timeOfDay string) (bool, error) {
	var count int64
	err := s.db.Model(&models.Appointment{}).
		Where("doctor_id = ? AND date = ? AND time = ? AND status = ?",
			doctorID, date, timeOfDay, models.StatusScheduled).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("checking slot availability: %w", err)
	}
	return count > 0, nil
}
