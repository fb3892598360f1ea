package handlers

import (
	"errors"

	"promarket-server/internal/models"
	"promarket-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ProfessionalHandler handles the professional catalog.
type ProfessionalHandler struct {
	DB *gorm.DB
}

// NewProfessionalHandler creates a new ProfessionalHandler.
func NewProfessionalHandler(db *gorm.DB) *ProfessionalHandler {
	return &ProfessionalHandler{DB: db}
}

// GetProfessionals handles listing professionals, optionally filtered by type.
func (h *ProfessionalHandler) GetProfessionals(c *gin.Context) {
	query := h.DB.Preload("User").Preload("ProfessionalType")

	if typeID := c.Query("typeId"); typeID != "" {
		query = query.Where("professional_type_id = ?", typeID)
	}

	var professionals []models.Professional
	if err := query.Find(&professionals).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch professionals: "+err.Error())
		return
	}

	utils.Success(c, "Professionals fetched successfully", professionals)
}

// GetProfessionalByID handles fetching one professional with profile data.
func (h *ProfessionalHandler) GetProfessionalByID(c *gin.Context) {
	professionalID := c.Param("id")

	var professional models.Professional
	err := h.DB.Preload("User").Preload("ProfessionalType").
		First(&professional, "id = ?", professionalID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Professional not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	utils.Success(c, "Professional fetched successfully", professional)
}

// ProfessionalTypeRequest represents the request body for creating or
// updating a professional type.
type ProfessionalTypeRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// GetProfessionalTypes handles listing all professional types.
func (h *ProfessionalHandler) GetProfessionalTypes(c *gin.Context) {
	var types []models.ProfessionalType
	if err := h.DB.Order("name asc").Find(&types).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch professional types: "+err.Error())
		return
	}

	utils.Success(c, "Professional types fetched successfully", types)
}

// CreateProfessionalType handles creating a professional type (admin).
func (h *ProfessionalHandler) CreateProfessionalType(c *gin.Context) {
	var req ProfessionalTypeRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var existing models.ProfessionalType
	if err := h.DB.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		utils.BadRequest(c, "Professional type with this name already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	profType := models.ProfessionalType{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
	}
	if err := h.DB.Create(&profType).Error; err != nil {
		utils.InternalServerError(c, "Failed to create professional type: "+err.Error())
		return
	}

	utils.Created(c, "Professional type created successfully", profType)
}

// UpdateProfessionalType handles updating a professional type (admin).
func (h *ProfessionalHandler) UpdateProfessionalType(c *gin.Context) {
	typeID := c.Param("id")

	var profType models.ProfessionalType
	if err := h.DB.First(&profType, "id = ?", typeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Professional type not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	var req ProfessionalTypeRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	profType.Name = req.Name
	profType.Description = req.Description
	profType.Icon = req.Icon

	if err := h.DB.Save(&profType).Error; err != nil {
		utils.InternalServerError(c, "Failed to update professional type: "+err.Error())
		return
	}

	utils.Success(c, "Professional type updated successfully", profType)
}

// DeleteProfessionalType handles deleting a professional type (admin).
func (h *ProfessionalHandler) DeleteProfessionalType(c *gin.Context) {
	typeID := c.Param("id")

	var profType models.ProfessionalType
	if err := h.DB.First(&profType, "id = ?", typeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Professional type not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	var inUse int64
	h.DB.Model(&models.Professional{}).Where("professional_type_id = ?", typeID).Count(&inUse)
	if inUse > 0 {
		utils.BadRequest(c, "Professional type is in use and cannot be deleted")
		return
	}

	if err := h.DB.Delete(&profType).Error; err != nil {
		utils.InternalServerError(c, "Failed to delete professional type: "+err.Error())
		return
	}

	utils.Success(c, "Professional type deleted successfully", nil)
}
