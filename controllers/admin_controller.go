package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"automarket-backend/services"
	"automarket-backend/utils"
)

// AdminController owns the session-gated vehicle CRUD. Every route it serves
// sits behind middleware.AdminRequired.
type AdminController struct {
	vehicles *services.VehicleService
	uploads  *services.UploadService
}

func NewAdminController(vehicles *services.VehicleService, uploads *services.UploadService) *AdminController {
	return &AdminController{vehicles: vehicles, uploads: uploads}
}

// vehicleForm mirrors the admin entry form. Pointer fields distinguish
// "not provided" from "provided empty" on edit submissions.
type vehicleForm struct {
	Title        string  `form:"title"`
	Category     string  `form:"category"`
	Make         string  `form:"make"`
	Model        string  `form:"model"`
	Year         int     `form:"year"`
	Price        float64 `form:"price"`
	Mileage      int     `form:"mileage"`
	Description  string  `form:"description"`
	ContactName  string  `form:"contact_name"`
	ContactPhone string  `form:"contact_phone"`
	ContactEmail *string `form:"contact_email"`

	FuelType     *string `form:"fuel_type"`
	Transmission *string `form:"transmission"`
	EngineSize   *string `form:"engine_size"`
	Horsepower   *int    `form:"horsepower"`
	Drivetrain   *string `form:"drivetrain"`

	PreviousOwners  *int    `form:"previous_owners"`
	AccidentHistory *string `form:"accident_history"`
	ServiceHistory  *string `form:"service_history"`

	InsuranceStatus    *string `form:"insurance_status"`
	RegistrationNumber *string `form:"registration_number"`

	Condition     *string `form:"condition"`
	Features      *string `form:"features"`
	ExteriorColor *string `form:"exterior_color"`
	InteriorColor *string `form:"interior_color"`

	Status string `form:"status"`
}

func (f *vehicleForm) toInput() services.VehicleInput {
	return services.VehicleInput{
		Title:        f.Title,
		Category:     f.Category,
		Make:         f.Make,
		Model:        f.Model,
		Year:         f.Year,
		Price:        f.Price,
		Mileage:      f.Mileage,
		Description:  f.Description,
		ContactName:  f.ContactName,
		ContactPhone: f.ContactPhone,
		ContactEmail: f.ContactEmail,

		FuelType:     f.FuelType,
		Transmission: f.Transmission,
		EngineSize:   f.EngineSize,
		Horsepower:   f.Horsepower,
		Drivetrain:   f.Drivetrain,

		PreviousOwners:  f.PreviousOwners,
		AccidentHistory: f.AccidentHistory,
		ServiceHistory:  f.ServiceHistory,

		InsuranceStatus:    f.InsuranceStatus,
		RegistrationNumber: f.RegistrationNumber,

		Condition:     f.Condition,
		Features:      f.Features,
		ExteriorColor: f.ExteriorColor,
		InteriorColor: f.InteriorColor,

		Status: f.Status,
	}
}

// imageFiles pulls the uploaded "images" parts out of the multipart form.
// A request without a multipart body is fine and yields no files.
func imageFiles(c *gin.Context) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File["images"]
}

// ListVehicles handles GET /api/admin/vehicles (dashboard view, all statuses).
func (ctl *AdminController) ListVehicles(c *gin.Context) {
	vehicles, err := ctl.vehicles.ListAll()
	if err != nil {
		log.WithError(err).Error("admin vehicle listing failed")
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load vehicles")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"vehicles": vehicles})
}

// GetVehicle handles GET /api/admin/vehicles/:id, used to populate the edit form.
func (ctl *AdminController) GetVehicle(c *gin.Context) {
	vehicle, err := ctl.vehicles.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrVehicleNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Vehicle not found")
			return
		}
		log.WithError(err).Error("admin vehicle lookup failed")
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load vehicle")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"vehicle": vehicle})
}

// CreateVehicle handles POST /api/admin/vehicles (multipart form).
func (ctl *AdminController) CreateVehicle(c *gin.Context) {
	var form vehicleForm
	if err := c.ShouldBind(&form); err != nil {
		log.WithError(err).Warn("vehicle create form binding failed")
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	images := ctl.uploads.SaveVehicleImages(imageFiles(c))

	vehicle, err := ctl.vehicles.Create(form.toInput(), images)
	if err != nil {
		var verrs services.ValidationErrors
		if errors.As(err, &verrs) {
			utils.JSONValidationError(c, verrs)
			return
		}
		log.WithError(err).Error("vehicle create failed")
		utils.JSONError(c, http.StatusInternalServerError, "Failed to add vehicle")
		return
	}

	utils.JSONSuccess(c, http.StatusCreated, gin.H{"vehicle": vehicle})
}

// UpdateVehicle handles PUT /api/admin/vehicles/:id (multipart form).
// Newly uploaded images are appended to the existing list; sending
// existing_images entries replaces the stored list first.
func (ctl *AdminController) UpdateVehicle(c *gin.Context) {
	var form vehicleForm
	if err := c.ShouldBind(&form); err != nil {
		log.WithError(err).Warn("vehicle update form binding failed")
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	input := form.toInput()
	if existing, ok := c.GetPostFormArray("existing_images"); ok {
		input.ReplaceImages = existing
		input.ReplaceImagesSet = true
	}

	images := ctl.uploads.SaveVehicleImages(imageFiles(c))

	vehicle, err := ctl.vehicles.Update(c.Param("id"), input, images)
	if err != nil {
		var verrs services.ValidationErrors
		switch {
		case errors.As(err, &verrs):
			utils.JSONValidationError(c, verrs)
		case errors.Is(err, services.ErrVehicleNotFound):
			utils.JSONError(c, http.StatusNotFound, "Vehicle not found")
		default:
			log.WithError(err).Error("vehicle update failed")
			utils.JSONError(c, http.StatusInternalServerError, "Failed to update vehicle")
		}
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{"vehicle": vehicle})
}

// DeleteVehicle handles DELETE /api/admin/vehicles/:id.
func (ctl *AdminController) DeleteVehicle(c *gin.Context) {
	id := c.Param("id")
	if err := ctl.vehicles.Delete(id); err != nil {
		if errors.Is(err, services.ErrVehicleNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Vehicle not found")
			return
		}
		log.WithError(err).WithField("vehicle_id", id).Error("vehicle delete failed")
		utils.JSONError(c, http.StatusInternalServerError, "Failed to delete vehicle")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "Vehicle deleted successfully"})
}

// ToggleStatus handles POST /api/admin/vehicles/:id/toggle-status.
func (ctl *AdminController) ToggleStatus(c *gin.Context) {
	id := c.Param("id")
	newStatus, err := ctl.vehicles.ToggleStatus(id)
	if err != nil {
		if errors.Is(err, services.ErrVehicleNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Vehicle not found")
			return
		}
		log.WithError(err).WithField("vehicle_id", id).Error("vehicle status toggle failed")
		utils.JSONError(c, http.StatusInternalServerError, "Failed to update vehicle status")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"new_status": newStatus})
}
