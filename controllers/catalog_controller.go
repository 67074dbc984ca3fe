package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"automarket-backend/models"
	"automarket-backend/services"
	"automarket-backend/utils"
)

// CatalogController serves the public, read-only side of the marketplace.
type CatalogController struct {
	vehicles *services.VehicleService
}

func NewCatalogController(vehicles *services.VehicleService) *CatalogController {
	return &CatalogController{vehicles: vehicles}
}

// ListVehicles handles GET /api/vehicles?category=<c>&search=<q>.
// Only available vehicles are returned.
func (ctl *CatalogController) ListVehicles(c *gin.Context) {
	category := c.DefaultQuery("category", "all")
	search := c.Query("search")

	vehicles, err := ctl.vehicles.ListAvailable(category, search)
	if err != nil {
		log.WithError(err).Error("catalog listing failed")
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load vehicles")
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"vehicles":   vehicles,
		"categories": models.Categories,
		"category":   category,
		"search":     search,
	})
}

// GetVehicle handles GET /api/vehicles/:id.
func (ctl *CatalogController) GetVehicle(c *gin.Context) {
	id := c.Param("id")

	vehicle, err := ctl.vehicles.GetByID(id)
	if err != nil {
		if errors.Is(err, services.ErrVehicleNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Vehicle not found")
			return
		}
		log.WithError(err).WithField("vehicle_id", id).Error("vehicle lookup failed")
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load vehicle")
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{"vehicle": vehicle})
}
