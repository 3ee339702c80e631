package scheduling

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"telehealth-server/internal/models"
)

var testDBCounter int64

// newTestDB opens a fresh in-memory database with the full schema, including
// the unique slot index the booking workflow relies on.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:scheduling_test_%d?mode=memory&cache=shared",
		atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, models.Migrate(db))
	return db
}

func newTestService(t *testing.T, db *gorm.DB) *Service {
	t.Helper()
	return NewService(db, zerolog.Nop(), nil)
}

func createDoctor(t *testing.T, db *gorm.DB, template models.WeeklyTemplate, fee float64) models.User {
	t.Helper()

	doctor := models.User{
		Email:     "doctor@example.com",
		FirstName: "Gregory",
		LastName:  "House",
		Role:      models.RoleDoctor,
	}
	require.NoError(t, doctor.SetPassword("password123"))
	require.NoError(t, db.Create(&doctor).Error)

	profile := models.DoctorProfile{
		UserID:          doctor.ID,
		Specialization:  "Cardiology",
		ConsultationFee: fee,
		Availability:    template,
	}
	require.NoError(t, db.Create(&profile).Error)
	return doctor
}

func createPatient(t *testing.T, db *gorm.DB) models.User {
	t.Helper()

	patient := models.User{
		Email:     "patient@example.com",
		FirstName: "Jane",
		LastName:  "Doe",
		Role:      models.RolePatient,
	}
	require.NoError(t, patient.SetPassword("password123"))
	require.NoError(t, db.Create(&patient).Error)
	return patient
}
