package services

import (
	"strings"
	"time"

	"automarket-backend/models"
)

// ValidationErrors maps field names to a human-readable message. It is
// returned as the error of Create/Update when a submission is rejected,
// before anything touches the database.
type ValidationErrors map[string]string

func (e ValidationErrors) Error() string {
	return "validation failed"
}

// Field bounds follow the admin entry form.
func ValidateVehicleInput(input VehicleInput) ValidationErrors {
	errs := ValidationErrors{}

	title := strings.TrimSpace(input.Title)
	if len(title) < 5 || len(title) > 100 {
		errs["title"] = "Title must be between 5 and 100 characters"
	}

	if !models.ValidCategory(input.Category) {
		errs["category"] = "Category must be one of: " + strings.Join(models.Categories, ", ")
	}

	if mk := strings.TrimSpace(input.Make); mk == "" || len(mk) > 50 {
		errs["make"] = "Make is required (max 50 characters)"
	}
	if mdl := strings.TrimSpace(input.Model); mdl == "" || len(mdl) > 50 {
		errs["model"] = "Model is required (max 50 characters)"
	}

	maxYear := time.Now().Year() + 1
	if input.Year < 1990 || input.Year > maxYear {
		errs["year"] = "Year is out of range"
	}
	if input.Price < 0 {
		errs["price"] = "Price cannot be negative"
	}
	if input.Mileage < 0 {
		errs["mileage"] = "Mileage cannot be negative"
	}
	if len(input.Description) > 1000 {
		errs["description"] = "Description must be at most 1000 characters"
	}

	if name := strings.TrimSpace(input.ContactName); name == "" || len(name) > 100 {
		errs["contact_name"] = "Contact name is required (max 100 characters)"
	}
	if phone := strings.TrimSpace(input.ContactPhone); phone == "" || len(phone) > 20 {
		errs["contact_phone"] = "Contact phone is required (max 20 characters)"
	}
	if input.ContactEmail != nil {
		email := strings.TrimSpace(*input.ContactEmail)
		if email != "" && !strings.Contains(email, "@") {
			errs["contact_email"] = "Contact email is not valid"
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
