package handlers

import (
	"errors"

	"telehealth-server/internal/middleware"
	"telehealth-server/internal/models"
	"telehealth-server/internal/scheduling"
	"telehealth-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AppointmentHandler exposes the booking workflow over HTTP. All business
// rules live in the scheduling service; this layer binds requests, applies
// role checks and maps typed outcomes onto status codes.
type AppointmentHandler struct {
	DB        *gorm.DB
	Scheduler *scheduling.Service
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(db *gorm.DB, scheduler *scheduling.Service) *AppointmentHandler {
	return &AppointmentHandler{DB: db, Scheduler: scheduler}
}

// BookAppointmentRequest represents the request body for booking a slot.
type BookAppointmentRequest struct {
	DoctorID  string `json:"doctorId" binding:"required,uuid"`
	PatientID string `json:"patientId" binding:"omitempty,uuid"`
	Date      string `json:"date" binding:"required,datetime=2006-01-02"`
	Time      string `json:"time" binding:"required,datetime=15:04"`
	Modality  string `json:"modality" binding:"required,oneof=video in_person phone"`
	Reason    string `json:"reason" binding:"required"`
}

// BookAppointment handles booking a slot. Patients book for themselves;
// doctors and admins may book on a patient's behalf.
//
// A 409 response means the slot was taken between listing and submission.
// The client must re-query the slot catalog and let the user pick again,
// never silently pick a slot for them.
func (h *AppointmentHandler) BookAppointment(c *gin.Context) {
	var req BookAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	userRole, _ := middleware.GetUserRoleFromContext(c)

	patientID := req.PatientID
	if userRole == models.RolePatient {
		if patientID != "" && patientID != userID {
			utils.Forbidden(c, "Patients can only book appointments for themselves.")
			return
		}
		patientID = userID
	} else if patientID == "" {
		utils.BadRequest(c, "patientId is required when booking on a patient's behalf")
		return
	}

	appointment, err := h.Scheduler.Book(scheduling.BookingRequest{
		PatientID: patientID,
		DoctorID:  req.DoctorID,
		Date:      req.Date,
		Time:      req.Time,
		Modality:  models.AppointmentModality(req.Modality),
		Reason:    req.Reason,
	})
	if err != nil {
		switch {
		case errors.Is(err, scheduling.ErrSlotUnavailable):
			utils.Conflict(c, "This slot is no longer available, please choose another.")
		case errors.Is(err, scheduling.ErrNotFound):
			utils.NotFound(c, err.Error())
		default:
			utils.InternalServerError(c, "Failed to book appointment: "+err.Error())
		}
		return
	}

	utils.Created(c, "Appointment booked successfully", appointment)
}

// GetAppointmentsForUser handles fetching appointments for the logged-in
// user. Patients see their own, doctors see their schedule, admins see all.
func (h *AppointmentHandler) GetAppointmentsForUser(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	userRole, _ := middleware.GetUserRoleFromContext(c)

	var appointments []models.Appointment
	var err error

	switch userRole {
	case models.RolePatient:
		appointments, err = h.Scheduler.ListForPatient(userID)
	case models.RoleDoctor:
		appointments, err = h.Scheduler.ListForDoctor(userID)
	case models.RoleAdmin:
		err = h.DB.Preload("Patient").Preload("Doctor").
			Order("date desc, time desc").Find(&appointments).Error
	default:
		utils.Forbidden(c, "User role not permitted to view appointments")
		return
	}

	if err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}

	utils.Success(c, "Appointments fetched successfully", appointments)
}

// GetAppointmentByID handles fetching a single appointment by its ID.
// Accessible by the involved patient, the involved doctor, or an admin.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	appointment, err := h.Scheduler.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, scheduling.ErrNotFound) {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)

	if userRole != models.RoleAdmin && userID != appointment.PatientID && userID != appointment.DoctorID {
		utils.Forbidden(c, "You are not authorized to view this appointment")
		return
	}

	utils.Success(c, "Appointment fetched successfully", appointment)
}

// UpdateAppointmentStatusRequest represents the request body for a status
// transition.
type UpdateAppointmentStatusRequest struct {
	Status models.AppointmentStatus `json:"status" binding:"required,oneof=cancelled completed no_show"`
}

// UpdateAppointmentStatus handles the appointment lifecycle transitions.
// Patients may only cancel their own appointments; doctors and admins may
// cancel, complete or mark a no-show. Transitions out of a terminal status
// are rejected, never silently coerced.
func (h *AppointmentHandler) UpdateAppointmentStatus(c *gin.Context) {
	var req UpdateAppointmentStatusRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appointment, err := h.Scheduler.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, scheduling.ErrNotFound) {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)

	switch userRole {
	case models.RoleAdmin:
	case models.RoleDoctor:
		if userID != appointment.DoctorID {
			utils.Forbidden(c, "You are not authorized to update this appointment.")
			return
		}
	case models.RolePatient:
		if userID != appointment.PatientID {
			utils.Forbidden(c, "You are not authorized to update this appointment.")
			return
		}
		if req.Status != models.StatusCancelled {
			utils.Forbidden(c, "Patients can only cancel appointments.")
			return
		}
	default:
		utils.Forbidden(c, "You are not authorized to update this appointment.")
		return
	}

	updated, err := h.Scheduler.UpdateStatus(appointment.ID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, scheduling.ErrInvalidTransition):
			utils.Conflict(c, err.Error())
		case errors.Is(err, scheduling.ErrNotFound):
			utils.NotFound(c, "Appointment not found")
		default:
			utils.InternalServerError(c, "Failed to update appointment status: "+err.Error())
		}
		return
	}

	utils.Success(c, "Appointment status updated successfully", updated)
}
