package handlers

import (
	"telehealth-server/internal/models"
	"telehealth-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HospitalHandler handles hospital listing and administration.
type HospitalHandler struct {
	DB *gorm.DB
}

// NewHospitalHandler creates a new HospitalHandler.
func NewHospitalHandler(db *gorm.DB) *HospitalHandler {
	return &HospitalHandler{DB: db}
}

// GetHospitals handles fetching all hospitals.
func (h *HospitalHandler) GetHospitals(c *gin.Context) {
	var hospitals []models.Hospital
	if err := h.DB.Order("name asc").Find(&hospitals).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch hospitals: "+err.Error())
		return
	}
	utils.Success(c, "Hospitals fetched successfully", hospitals)
}

// CreateHospitalRequest represents the request body for creating a hospital.
type CreateHospitalRequest struct {
	Name        string `json:"name" binding:"required"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phoneNumber"`
}

// CreateHospital handles creating a hospital (admin).
func (h *HospitalHandler) CreateHospital(c *gin.Context) {
	var req CreateHospitalRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	hospital := models.Hospital{
		Name:        req.Name,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
	}
	if err := h.DB.Create(&hospital).Error; err != nil {
		utils.InternalServerError(c, "Failed to create hospital: "+err.Error())
		return
	}

	utils.Created(c, "Hospital created successfully", hospital)
}
