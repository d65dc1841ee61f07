package domain

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PriceRange is stored as three flat columns so price filters stay plain SQL.
type PriceRange struct {
	Min      float64 `gorm:"column:price_min;type:decimal(18,2);not null;default:0" json:"min"`
	Max      float64 `gorm:"column:price_max;type:decimal(18,2);not null;default:0" json:"max"`
	Currency string  `gorm:"column:currency;type:varchar(8);not null" json:"currency"`
}

// Availability is the optional date window and day-of-week set of a listing.
type Availability struct {
	Start *time.Time                  `gorm:"column:available_from" json:"start,omitempty"`
	End   *time.Time                  `gorm:"column:available_to" json:"end,omitempty"`
	Days  datatypes.JSONSlice[string] `gorm:"column:available_days" json:"days,omitempty"`
}

// Listing is a demand or a service. Kind and OwnerID never change after creation.
type Listing struct {
	ID           uuid.UUID                   `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Kind         ListingKind                 `gorm:"column:kind;type:varchar(16);not null;index" json:"kind"`
	OwnerID      uuid.UUID                   `gorm:"column:owner_id;type:uuid;not null;index" json:"owner_id"`
	Title        string                      `gorm:"column:title;not null" json:"title"`
	Description  string                      `gorm:"column:description;type:text;not null" json:"description"`
	Category     string                      `gorm:"column:category;not null;index" json:"category"`
	PriceRange   PriceRange                  `gorm:"embedded" json:"price_range"`
	IsPublic     bool                        `gorm:"column:is_public;not null" json:"is_public"`
	Featured     bool                        `gorm:"column:featured;not null" json:"featured"`
	Status       ListingStatus               `gorm:"column:status;type:varchar(20);not null;index" json:"status"`
	Tags         datatypes.JSONSlice[string] `gorm:"column:tags" json:"tags,omitempty"`
	ImageURLs    datatypes.JSONSlice[string] `gorm:"column:image_urls" json:"image_urls,omitempty"`
	Availability Availability                `gorm:"embedded" json:"availability"`
	Note         string                      `gorm:"column:note;type:text" json:"note,omitempty"`
	ContactInfo  datatypes.JSON              `gorm:"column:contact_info" json:"contact_info,omitempty"`
	CreatedAt    time.Time                   `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time                   `gorm:"column:updated_at" json:"updated_at"`
}

func (Listing) TableName() string {
	return "listings"
}

// BeforeCreate sets id if not already set.
func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// Discoverable reports whether the listing may appear in public results.
func (l *Listing) Discoverable() bool {
	return l.IsPublic && l.Status.Discoverable()
}

// ContactEmail returns contact_info.email when present.
func ContactEmail(raw datatypes.JSON) string {
	if len(raw) == 0 {
		return ""
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return ""
	}
	s, _ := m["email"].(string)
	return strings.TrimSpace(s)
}

// JSONObject encodes m for a JSON column; nil or empty maps become "{}".
func JSONObject(m map[string]interface{}) datatypes.JSON {
	if len(m) == 0 {
		return datatypes.JSON("{}")
	}
	b, err := json.Marshal(m)
	if err != nil {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(b)
}
