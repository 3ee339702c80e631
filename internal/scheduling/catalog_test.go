package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telehealth-server/internal/models"
)

// 2024-02-05 is a Monday.
const mondayDate = "2024-02-05"

func TestSlotsForDayAllAvailable(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	doctor := createDoctor(t, db, models.WeeklyTemplate{
		"monday": {"09:00", "09:30"},
	}, 50)

	slots, err := svc.SlotsForDay(doctor.ID, mondayDate)
	require.NoError(t, err)

	assert.Equal(t, []Slot{
		{Time: "09:00", Available: true},
		{Time: "09:30", Available: true},
	}, slots)
}

func TestSlotsForDayMarksBookedSlot(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	doctor := createDoctor(t, db, models.WeeklyTemplate{
		"monday": {"09:00", "09:30"},
	}, 50)
	patient := createPatient(t, db)

	_, err := svc.Book(BookingRequest{
		PatientID: patient.ID,
		DoctorID:  doctor.ID,
		Date:      mondayDate,
		Time:      "09:00",
		Modality:  models.ModalityVideo,
		Reason:    "checkup",
	})
	require.NoError(t, err)

	slots, err := svc.SlotsForDay(doctor.ID, mondayDate)
	require.NoError(t, err)

	assert.Equal(t, []Slot{
		{Time: "09:00", Available: false},
		{Time: "09:30", Available: true},
	}, slots)
}

func TestSlotsForDayIgnoresCancelledAppointments(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	doctor := createDoctor(t, db, models.WeeklyTemplate{
		"monday": {"09:00"},
	}, 50)
	patient := createPatient(t, db)

	appointment, err := svc.Book(BookingRequest{
		PatientID: patient.ID,
		DoctorID:  doctor.ID,
		Date:      mondayDate,
		Time:      "09:00",
		Modality:  models.ModalityVideo,
		Reason:    "checkup",
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(appointment.ID, models.StatusCancelled)
	require.NoError(t, err)

	slots, err := svc.SlotsForDay(doctor.ID, mondayDate)
	require.NoError(t, err)
	assert.Equal(t, []Slot{{Time: "09:00", Available: true}}, slots)
}

func TestSlotsForDayPreservesTemplateOrder(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	// Deliberately not sorted; the template's declared order is the
	// doctor's display order.
	doctor := createDoctor(t, db, models.WeeklyTemplate{
		"monday": {"14:00", "09:30", "11:00"},
	}, 50)

	slots, err := svc.SlotsForDay(doctor.ID, mondayDate)
	require.NoError(t, err)

	times := make([]string, len(slots))
	for i, s := range slots {
		times[i] = s.Time
	}
	assert.Equal(t, []string{"14:00", "09:30", "11:00"}, times)
}

func TestSlotsForDayEmptyWhenWeekdayNotInTemplate(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	doctor := createDoctor(t, db, models.WeeklyTemplate{
		"tuesday": {"09:00"},
	}, 50)

	slots, err := svc.SlotsForDay(doctor.ID, mondayDate)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestSlotsForDayEmptyForUnknownDoctor(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)

	slots, err := svc.SlotsForDay("00000000-0000-0000-0000-000000000000", mondayDate)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestSlotsForDayEmptyWhenTemplateMissing(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	doctor := createDoctor(t, db, nil, 50)

	slots, err := svc.SlotsForDay(doctor.ID, mondayDate)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestSlotsForDayRejectsMalformedDate(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)

	_, err := svc.SlotsForDay("irrelevant", "05-02-2024")
	assert.Error(t, err)
}
