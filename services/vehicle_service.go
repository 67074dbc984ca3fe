package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"automarket-backend/models"
)

var ErrVehicleNotFound = errors.New("vehicle_not_found")

// VehicleService เป็น wrapper รอบ *gorm.DB เพื่อแยก logic ของ catalog/CRUD
type VehicleService struct {
	DB *gorm.DB
}

func NewVehicleService(db *gorm.DB) *VehicleService {
	return &VehicleService{DB: db}
}

// VehicleInput carries one create/edit submission. Core listing fields are
// required on every submission; extended detail fields are optional and a
// nil pointer means "not provided, leave as is".
type VehicleInput struct {
	Title        string
	Category     string
	Make         string
	Model        string
	Year         int
	Price        float64
	Mileage      int
	Description  string
	ContactName  string
	ContactPhone string
	ContactEmail *string

	FuelType     *string
	Transmission *string
	EngineSize   *string
	Horsepower   *int
	Drivetrain   *string

	PreviousOwners  *int
	AccidentHistory *string
	ServiceHistory  *string

	InsuranceStatus    *string
	RegistrationNumber *string

	Condition     *string
	Features      *string
	ExteriorColor *string
	InteriorColor *string

	// Status is honored on update only; create always starts available.
	Status string

	// ReplaceImages, when set, replaces the stored image list wholesale
	// before any new uploads are appended. Used by the admin edit form to
	// remove or reorder existing images.
	ReplaceImages    []string
	ReplaceImagesSet bool
}

// ListAvailable returns the catalog visible to anonymous visitors.
// Category "all" (or empty) means no category filter; search is a
// case-insensitive substring match over title, make and model.
func (s *VehicleService) ListAvailable(category, search string) ([]models.Vehicle, error) {
	q := s.DB.Where("status = ?", models.StatusAvailable)

	category = strings.TrimSpace(category)
	if category != "" && category != "all" {
		q = q.Where("category = ?", category)
	}

	search = strings.TrimSpace(search)
	if search != "" {
		needle := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(make) LIKE ? OR LOWER(model) LIKE ?",
			needle, needle, needle)
	}

	var vehicles []models.Vehicle
	if err := q.Order("created_at").Find(&vehicles).Error; err != nil {
		return nil, fmt.Errorf("list available vehicles: %w", err)
	}
	return vehicles, nil
}

// ListAll returns every vehicle regardless of status, for the admin console.
func (s *VehicleService) ListAll() ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	if err := s.DB.Order("created_at desc").Find(&vehicles).Error; err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	return vehicles, nil
}

// GetByID fetches one vehicle by primary key. A transient backend failure on
// the keyed fetch is retried once through an equivalent filtered query
// before the error is surfaced.
func (s *VehicleService) GetByID(id string) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := s.DB.First(&vehicle, "id = ?", id).Error
	if err == nil {
		return &vehicle, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrVehicleNotFound
	}

	log.WithError(err).WithField("vehicle_id", id).Warn("keyed vehicle fetch failed, retrying via filtered query")
	if err := s.DB.Where("id = ?", id).Take(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, fmt.Errorf("vehicle lookup: %w", err)
	}
	return &vehicle, nil
}

// Create inserts a new listing. The caller never controls the id or the
// status: the id is a fresh UUID and the status always starts available.
func (s *VehicleService) Create(input VehicleInput, images []string) (*models.Vehicle, error) {
	if errs := ValidateVehicleInput(input); errs != nil {
		return nil, errs
	}

	vehicle := models.Vehicle{
		ID:           uuid.NewString(),
		Title:        strings.TrimSpace(input.Title),
		Category:     input.Category,
		Make:         strings.TrimSpace(input.Make),
		Model:        strings.TrimSpace(input.Model),
		Year:         input.Year,
		Price:        input.Price,
		Mileage:      input.Mileage,
		Description:  input.Description,
		ContactName:  strings.TrimSpace(input.ContactName),
		ContactPhone: strings.TrimSpace(input.ContactPhone),
		ContactEmail: input.ContactEmail,
		Status:       models.StatusAvailable,

		FuelType:     input.FuelType,
		Transmission: input.Transmission,
		EngineSize:   input.EngineSize,
		Horsepower:   input.Horsepower,
		Drivetrain:   input.Drivetrain,

		PreviousOwners:  input.PreviousOwners,
		AccidentHistory: input.AccidentHistory,
		ServiceHistory:  input.ServiceHistory,

		InsuranceStatus:    input.InsuranceStatus,
		RegistrationNumber: input.RegistrationNumber,

		Condition:     input.Condition,
		Features:      input.Features,
		ExteriorColor: input.ExteriorColor,
		InteriorColor: input.InteriorColor,
	}
	vehicle.SetImageList(images)

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&vehicle).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create vehicle: %w", err)
	}
	return &vehicle, nil
}

// Update overwrites the listing fields of an existing vehicle. The id and
// created_at never change; new uploads are appended to the image list unless
// the input explicitly replaces it. The whole write is one transaction.
func (s *VehicleService) Update(id string, input VehicleInput, newImages []string) (*models.Vehicle, error) {
	if errs := ValidateVehicleInput(input); errs != nil {
		return nil, errs
	}

	var vehicle models.Vehicle
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&vehicle, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVehicleNotFound
			}
			return err
		}

		vehicle.Title = strings.TrimSpace(input.Title)
		vehicle.Category = input.Category
		vehicle.Make = strings.TrimSpace(input.Make)
		vehicle.Model = strings.TrimSpace(input.Model)
		vehicle.Year = input.Year
		vehicle.Price = input.Price
		vehicle.Mileage = input.Mileage
		vehicle.Description = input.Description
		vehicle.ContactName = strings.TrimSpace(input.ContactName)
		vehicle.ContactPhone = strings.TrimSpace(input.ContactPhone)
		if input.ContactEmail != nil {
			vehicle.ContactEmail = input.ContactEmail
		}

		applyExtendedFields(&vehicle, input)

		if input.Status == models.StatusAvailable || input.Status == models.StatusSold {
			vehicle.Status = input.Status
		}

		if input.ReplaceImagesSet {
			vehicle.SetImageList(input.ReplaceImages)
		}
		vehicle.AppendImages(newImages)

		return tx.Save(&vehicle).Error
	})
	if err != nil {
		if errors.Is(err, ErrVehicleNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, fmt.Errorf("update vehicle: %w", err)
	}
	return &vehicle, nil
}

func applyExtendedFields(vehicle *models.Vehicle, input VehicleInput) {
	if input.FuelType != nil {
		vehicle.FuelType = input.FuelType
	}
	if input.Transmission != nil {
		vehicle.Transmission = input.Transmission
	}
	if input.EngineSize != nil {
		vehicle.EngineSize = input.EngineSize
	}
	if input.Horsepower != nil {
		vehicle.Horsepower = input.Horsepower
	}
	if input.Drivetrain != nil {
		vehicle.Drivetrain = input.Drivetrain
	}
	if input.PreviousOwners != nil {
		vehicle.PreviousOwners = input.PreviousOwners
	}
	if input.AccidentHistory != nil {
		vehicle.AccidentHistory = input.AccidentHistory
	}
	if input.ServiceHistory != nil {
		vehicle.ServiceHistory = input.ServiceHistory
	}
	if input.InsuranceStatus != nil {
		vehicle.InsuranceStatus = input.InsuranceStatus
	}
	if input.RegistrationNumber != nil {
		vehicle.RegistrationNumber = input.RegistrationNumber
	}
	if input.Condition != nil {
		vehicle.Condition = input.Condition
	}
	if input.Features != nil {
		vehicle.Features = input.Features
	}
	if input.ExteriorColor != nil {
		vehicle.ExteriorColor = input.ExteriorColor
	}
	if input.InteriorColor != nil {
		vehicle.InteriorColor = input.InteriorColor
	}
}

// Delete hard-deletes a vehicle row. Uploaded image files stay on disk.
func (s *VehicleService) Delete(id string) error {
	result := s.DB.Delete(&models.Vehicle{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete vehicle: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrVehicleNotFound
	}
	return nil
}

// ToggleStatus flips a vehicle between available and sold and returns the
// new status.
func (s *VehicleService) ToggleStatus(id string) (string, error) {
	var newStatus string
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var vehicle models.Vehicle
		if err := tx.First(&vehicle, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVehicleNotFound
			}
			return err
		}

		if vehicle.Status == models.StatusAvailable {
			newStatus = models.StatusSold
		} else {
			newStatus = models.StatusAvailable
		}
		vehicle.Status = newStatus
		return tx.Save(&vehicle).Error
	})
	if err != nil {
		if errors.Is(err, ErrVehicleNotFound) {
			return "", ErrVehicleNotFound
		}
		return "", fmt.Errorf("toggle vehicle status: %w", err)
	}
	return newStatus, nil
}
