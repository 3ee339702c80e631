package handlers

import (
	"time"

	"telehealth-server/internal/middleware"
	"telehealth-server/internal/models"
	"telehealth-server/internal/scheduling"
	"telehealth-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// DoctorHandler handles doctor discovery, profile management and the slot
// catalog endpoint.
type DoctorHandler struct {
	DB        *gorm.DB
	Scheduler *scheduling.Service
}

// NewDoctorHandler creates a new DoctorHandler.
func NewDoctorHandler(db *gorm.DB, scheduler *scheduling.Service) *DoctorHandler {
	return &DoctorHandler{DB: db, Scheduler: scheduler}
}

// DoctorListing is the booking-facing projection of a doctor.
type DoctorListing struct {
	models.UserSanitized
	Specialization  string                `json:"specialization"`
	ConsultationFee float64               `json:"consultationFee"`
	HospitalID      *string               `json:"hospitalId,omitempty"`
	Availability    models.WeeklyTemplate `json:"availability"`
}

// GetDoctors handles fetching all doctors with their booking profiles.
// Accessible to all authenticated users.
func (h *DoctorHandler) GetDoctors(c *gin.Context) {
	var profiles []models.DoctorProfile
	if err := h.DB.Preload("User").Find(&profiles).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch doctors: "+err.Error())
		return
	}

	listings := make([]DoctorListing, 0, len(profiles))
	for _, p := range profiles {
		listings = append(listings, DoctorListing{
			UserSanitized:   p.User.Sanitize(),
			Specialization:  p.Specialization,
			ConsultationFee: p.ConsultationFee,
			HospitalID:      p.HospitalID,
			Availability:    p.Availability,
		})
	}

	utils.Success(c, "Doctors fetched successfully", listings)
}

// UpdateDoctorProfileRequest represents the request body for a doctor
// updating their own booking profile.
type UpdateDoctorProfileRequest struct {
	Specialization  string                `json:"specialization"`
	ConsultationFee *float64              `json:"consultationFee"`
	HospitalID      *string               `json:"hospitalId"`
	Availability    models.WeeklyTemplate `json:"availability"`
}

var validWeekdays = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
}

// validateTemplate checks weekday names, time format and per-day uniqueness.
func validateTemplate(t models.WeeklyTemplate) string {
	for day, times := range t {
		if !validWeekdays[day] {
			return "unknown weekday: " + day
		}
		seen := make(map[string]bool, len(times))
		for _, tod := range times {
			if _, err := time.Parse(scheduling.TimeLayout, tod); err != nil {
				return "invalid time " + tod + " for " + day + ", expected HH:MM"
			}
			if seen[tod] {
				return "duplicate time " + tod + " for " + day
			}
			seen[tod] = true
		}
	}
	return ""
}

// UpdateMyProfile handles a doctor updating their own profile and weekly
// availability template.
func (h *DoctorHandler) UpdateMyProfile(c *gin.Context) {
	doctorID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req UpdateDoctorProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	if req.Availability != nil {
		if msg := validateTemplate(req.Availability); msg != "" {
			utils.BadRequest(c, "Invalid availability template: "+msg)
			return
		}
	}

	var profile models.DoctorProfile
	if err := h.DB.Where("user_id = ?", doctorID).First(&profile).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Doctor profile not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if req.Specialization != "" {
		profile.Specialization = req.Specialization
	}
	if req.ConsultationFee != nil {
		profile.ConsultationFee = *req.ConsultationFee
	}
	if req.HospitalID != nil {
		profile.HospitalID = req.HospitalID
	}
	if req.Availability != nil {
		profile.Availability = req.Availability
	}

	if err := h.DB.Save(&profile).Error; err != nil {
		utils.InternalServerError(c, "Failed to update doctor profile: "+err.Error())
		return
	}

	utils.Success(c, "Doctor profile updated successfully", profile)
}

// GetSlots handles GET /doctors/:id/slots?date=YYYY-MM-DD.
// An unknown doctor or an off-template day yields an empty list, not an
// error; the client renders it as "no slots available for this day".
func (h *DoctorHandler) GetSlots(c *gin.Context) {
	doctorID := c.Param("id")
	date := c.Query("date")

	if _, err := time.Parse(scheduling.DateLayout, date); err != nil {
		utils.BadRequest(c, "Invalid or missing date, expected YYYY-MM-DD")
		return
	}

	slots, err := h.Scheduler.SlotsForDay(doctorID, date)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch slots: "+err.Error())
		return
	}

	utils.Success(c, "Slots fetched successfully", gin.H{
		"date":  date,
		"slots": slots,
	})
}
