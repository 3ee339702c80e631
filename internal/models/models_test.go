package models

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testDBCounter int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:models_test_%d?mode=memory&cache=shared",
		atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, Migrate(db))
	return db
}

func TestBaseModelAssignsUUID(t *testing.T) {
	db := newTestDB(t)

	user := User{Email: "someone@example.com", Role: RolePatient}
	require.NoError(t, user.SetPassword("password123"))
	require.NoError(t, db.Create(&user).Error)

	assert.Len(t, user.ID, 36)
}

func TestAppointmentSlotKeyFollowsStatus(t *testing.T) {
	db := newTestDB(t)

	appointment := Appointment{
		PatientID: "p-1",
		DoctorID:  "d-1",
		Date:      "2024-02-05",
		Time:      "09:00",
		Modality:  ModalityVideo,
		Status:    StatusScheduled,
	}
	require.NoError(t, db.Create(&appointment).Error)
	require.NotNil(t, appointment.SlotKey)
	assert.Equal(t, "d-1|2024-02-05|09:00", *appointment.SlotKey)

	appointment.Status = StatusCancelled
	require.NoError(t, db.Save(&appointment).Error)

	var stored Appointment
	require.NoError(t, db.First(&stored, "id = ?", appointment.ID).Error)
	assert.Nil(t, stored.SlotKey)
}

func TestScheduledSlotKeyIsUniquePerSlot(t *testing.T) {
	db := newTestDB(t)

	first := Appointment{
		PatientID: "p-1", DoctorID: "d-1",
		Date: "2024-02-05", Time: "09:00", Status: StatusScheduled,
	}
	require.NoError(t, db.Create(&first).Error)

	second := Appointment{
		PatientID: "p-2", DoctorID: "d-1",
		Date: "2024-02-05", Time: "09:00", Status: StatusScheduled,
	}
	err := db.Create(&second).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// A cancelled appointment on the same slot does not collide.
	third := Appointment{
		PatientID: "p-3", DoctorID: "d-1",
		Date: "2024-02-05", Time: "09:00", Status: StatusCancelled,
	}
	assert.NoError(t, db.Create(&third).Error)
}

func TestWeeklyTemplateRoundTrip(t *testing.T) {
	db := newTestDB(t)

	doctor := User{Email: "doctor@example.com", Role: RoleDoctor}
	require.NoError(t, doctor.SetPassword("password123"))
	require.NoError(t, db.Create(&doctor).Error)

	template := WeeklyTemplate{
		"monday": {"14:00", "09:30", "11:00"},
		"friday": {"08:00"},
	}
	profile := DoctorProfile{UserID: doctor.ID, Availability: template}
	require.NoError(t, db.Create(&profile).Error)

	var stored DoctorProfile
	require.NoError(t, db.First(&stored, "user_id = ?", doctor.ID).Error)
	assert.Equal(t, template, stored.Availability)
	// Declared time order must survive storage.
	assert.Equal(t, []string{"14:00", "09:30", "11:00"}, stored.Availability["monday"])
}
