package models

import (
	"encoding/json"
	"time"
)

// Vehicle statuses. Listings start as available and flip to sold from the
// admin console; there are no other states.
const (
	StatusAvailable = "available"
	StatusSold      = "sold"
)

// Categories shown in the public catalog filter.
var Categories = []string{"Cars", "Trucks", "Commercial Vehicles"}

// Vehicle คือ listing หนึ่งคันในแคตตาล็อก
type Vehicle struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	Title       string  `gorm:"size:100;not null" json:"title"`
	Category    string  `gorm:"size:50;index;not null" json:"category"`
	Make        string  `gorm:"size:50;not null" json:"make"`
	Model       string  `gorm:"size:50;not null" json:"model"`
	Year        int     `json:"year"`
	Price       float64 `json:"price"`
	Mileage     int     `json:"mileage"`
	Description string  `gorm:"type:text" json:"description"`

	ContactName  string  `gorm:"size:100" json:"contact_name"`
	ContactPhone string  `gorm:"size:20" json:"contact_phone"`
	ContactEmail *string `gorm:"size:150" json:"contact_email,omitempty"`

	// Engine / performance
	FuelType     *string `gorm:"size:50" json:"fuel_type,omitempty"`
	Transmission *string `gorm:"size:50" json:"transmission,omitempty"`
	EngineSize   *string `gorm:"size:50" json:"engine_size,omitempty"`
	Horsepower   *int    `json:"horsepower,omitempty"`
	Drivetrain   *string `gorm:"size:20" json:"drivetrain,omitempty"`

	// Ownership / history
	PreviousOwners  *int    `json:"previous_owners,omitempty"`
	AccidentHistory *string `gorm:"size:255" json:"accident_history,omitempty"`
	ServiceHistory  *string `gorm:"size:255" json:"service_history,omitempty"`

	// Insurance / documentation
	InsuranceStatus    *string `gorm:"size:100" json:"insurance_status,omitempty"`
	RegistrationNumber *string `gorm:"size:50" json:"registration_number,omitempty"`

	// Condition / features
	Condition     *string `gorm:"size:50" json:"condition,omitempty"`
	Features      *string `gorm:"type:text" json:"features,omitempty"`
	ExteriorColor *string `gorm:"size:50" json:"exterior_color,omitempty"`
	InteriorColor *string `gorm:"size:50" json:"interior_color,omitempty"`

	// Images holds the uploaded filenames comma-joined in one text column.
	// Use ImageList / SetImageList instead of touching it directly.
	Images string `gorm:"type:text" json:"-"`

	Status string `gorm:"size:20;index;default:available" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ImageList decodes the flat Images column into an ordered filename slice.
func (v *Vehicle) ImageList() []string {
	return DecodeImageList(v.Images)
}

// SetImageList replaces the stored image list wholesale.
func (v *Vehicle) SetImageList(list []string) {
	v.Images = EncodeImageList(list)
}

// AppendImages merges freshly uploaded filenames onto the end of the list.
func (v *Vehicle) AppendImages(names []string) {
	v.Images = EncodeImageList(MergeImageLists(v.ImageList(), names))
}

// MarshalJSON serializes the decoded image list under "images" instead of
// exposing the raw comma-joined column.
func (v Vehicle) MarshalJSON() ([]byte, error) {
	type alias Vehicle
	return json.Marshal(struct {
		alias
		ImageList []string `json:"images"`
	}{alias(v), v.ImageList()})
}

// IsAvailable reports whether the listing is visible in the public catalog.
func (v *Vehicle) IsAvailable() bool {
	return v.Status == StatusAvailable
}

// ValidCategory reports whether c is one of the fixed catalog categories.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}
