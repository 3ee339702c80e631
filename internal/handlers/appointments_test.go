package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"telehealth-server/internal/config"
	"telehealth-server/internal/models"
	"telehealth-server/internal/routes"
	"telehealth-server/internal/scheduling"
	"telehealth-server/internal/utils"
)

var testDBCounter int64

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
	cfg    *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:handlers_test_%d?mode=memory&cache=shared",
		atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, models.Migrate(db))

	cfg := &config.Config{
		Environment:               "development",
		JWTSecret:                 "test_secret",
		JWTRefreshSecret:          "test_refresh_secret",
		JWTExpirationMinutes:      15,
		JWTRefreshExpirationHours: 168,
	}

	scheduler := scheduling.NewService(db, zerolog.Nop(), nil)
	router := gin.New()
	routes.SetupRoutes(router, db, cfg, scheduler)

	return &testEnv{db: db, router: router, cfg: cfg}
}

func (e *testEnv) createUser(t *testing.T, email string, role models.Role) (models.User, string) {
	t.Helper()

	user := models.User{Email: email, FirstName: "Test", LastName: "User", Role: role}
	require.NoError(t, user.SetPassword("password123"))
	require.NoError(t, e.db.Create(&user).Error)

	token, _, err := utils.GenerateTokens(&user, e.cfg)
	require.NoError(t, err)
	return user, token
}

func (e *testEnv) createDoctor(t *testing.T, template models.WeeklyTemplate, fee float64) (models.User, string) {
	t.Helper()

	doctor, token := e.createUser(t, "doctor@example.com", models.RoleDoctor)
	doctor.LastName = "House"
	require.NoError(t, e.db.Save(&doctor).Error)

	profile := models.DoctorProfile{UserID: doctor.ID, ConsultationFee: fee, Availability: template}
	require.NoError(t, e.db.Create(&profile).Error)
	return doctor, token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func TestBookingRequiresAuthentication(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/appointments", "", gin.H{})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBookingFlow(t *testing.T) {
	env := newTestEnv(t)
	doctor, _ := env.createDoctor(t, models.WeeklyTemplate{"monday": {"09:00", "09:30"}}, 60)
	patient, patientToken := env.createUser(t, "patient@example.com", models.RolePatient)

	slotsPath := "/api/v1/doctors/" + doctor.ID + "/slots?date=2024-02-05"

	// Both template slots start out available.
	rec := env.do(t, http.MethodGet, slotsPath, patientToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listing struct {
		Slots []scheduling.Slot `json:"slots"`
	}
	decodeData(t, rec, &listing)
	assert.Equal(t, []scheduling.Slot{
		{Time: "09:00", Available: true},
		{Time: "09:30", Available: true},
	}, listing.Slots)

	booking := gin.H{
		"doctorId": doctor.ID,
		"date":     "2024-02-05",
		"time":     "09:00",
		"modality": "video",
		"reason":   "checkup",
	}

	rec = env.do(t, http.MethodPost, "/api/v1/appointments", patientToken, booking)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created models.Appointment
	decodeData(t, rec, &created)
	assert.Equal(t, patient.ID, created.PatientID)
	assert.Equal(t, models.StatusScheduled, created.Status)
	assert.Equal(t, 60.0, created.Fee)

	// The booked slot is now reported unavailable.
	rec = env.do(t, http.MethodGet, slotsPath, patientToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &listing)
	assert.Equal(t, []scheduling.Slot{
		{Time: "09:00", Available: false},
		{Time: "09:30", Available: true},
	}, listing.Slots)

	// A second booking of the same slot conflicts.
	rec = env.do(t, http.MethodPost, "/api/v1/appointments", patientToken, booking)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Cancelling frees the slot for re-booking.
	rec = env.do(t, http.MethodPatch, "/api/v1/appointments/"+created.ID+"/status",
		patientToken, gin.H{"status": "cancelled"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/appointments", patientToken, booking)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestPatientCannotCompleteAppointment(t *testing.T) {
	env := newTestEnv(t)
	doctor, _ := env.createDoctor(t, models.WeeklyTemplate{"monday": {"09:00"}}, 60)
	_, patientToken := env.createUser(t, "patient@example.com", models.RolePatient)

	rec := env.do(t, http.MethodPost, "/api/v1/appointments", patientToken, gin.H{
		"doctorId": doctor.ID,
		"date":     "2024-02-05",
		"time":     "09:00",
		"modality": "video",
		"reason":   "checkup",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created models.Appointment
	decodeData(t, rec, &created)

	rec = env.do(t, http.MethodPatch, "/api/v1/appointments/"+created.ID+"/status",
		patientToken, gin.H{"status": "completed"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestTerminalStatusTransitionConflicts(t *testing.T) {
	env := newTestEnv(t)
	doctor, doctorToken := env.createDoctor(t, models.WeeklyTemplate{"monday": {"09:00"}}, 60)
	_, patientToken := env.createUser(t, "patient@example.com", models.RolePatient)

	rec := env.do(t, http.MethodPost, "/api/v1/appointments", patientToken, gin.H{
		"doctorId": doctor.ID,
		"date":     "2024-02-05",
		"time":     "09:00",
		"modality": "video",
		"reason":   "checkup",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created models.Appointment
	decodeData(t, rec, &created)

	rec = env.do(t, http.MethodPatch, "/api/v1/appointments/"+created.ID+"/status",
		doctorToken, gin.H{"status": "completed"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPatch, "/api/v1/appointments/"+created.ID+"/status",
		doctorToken, gin.H{"status": "cancelled"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestBookingCreatesNotificationFeedEntry(t *testing.T) {
	env := newTestEnv(t)
	doctor, _ := env.createDoctor(t, models.WeeklyTemplate{"monday": {"09:00"}}, 60)
	_, patientToken := env.createUser(t, "patient@example.com", models.RolePatient)

	rec := env.do(t, http.MethodPost, "/api/v1/appointments", patientToken, gin.H{
		"doctorId": doctor.ID,
		"date":     "2024-02-05",
		"time":     "09:00",
		"modality": "video",
		"reason":   "checkup",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/notifications?unread=true", patientToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var notifications []models.Notification
	decodeData(t, rec, &notifications)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.CategoryAppointment, notifications[0].Category)

	rec = env.do(t, http.MethodPatch, "/api/v1/notifications/"+notifications[0].ID+"/read",
		patientToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/notifications?unread=true", patientToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &notifications)
	assert.Empty(t, notifications)
}

func TestSlotsEndpointRejectsBadDate(t *testing.T) {
	env := newTestEnv(t)
	doctor, _ := env.createDoctor(t, models.WeeklyTemplate{"monday": {"09:00"}}, 60)
	_, patientToken := env.createUser(t, "patient@example.com", models.RolePatient)

	rec := env.do(t, http.MethodGet, "/api/v1/doctors/"+doctor.ID+"/slots?date=not-a-date",
		patientToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOffTemplateDayReturnsEmptySlots(t *testing.T) {
	env := newTestEnv(t)
	doctor, _ := env.createDoctor(t, models.WeeklyTemplate{"monday": {"09:00"}}, 60)
	_, patientToken := env.createUser(t, "patient@example.com", models.RolePatient)

	// 2024-02-06 is a Tuesday, not in the template.
	rec := env.do(t, http.MethodGet, "/api/v1/doctors/"+doctor.ID+"/slots?date=2024-02-06",
		patientToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listing struct {
		Slots []scheduling.Slot `json:"slots"`
	}
	decodeData(t, rec, &listing)
	assert.Empty(t, listing.Slots)
}
