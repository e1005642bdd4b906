// internal/models/exhibit.go
package models

import (
	"time"

	"gorm.io/datatypes"
)

type Exhibit struct {
	BaseModel

	// General information
	Title            string `json:"title" gorm:"size:500;not null"`
	ShortDescription string `json:"short_description" gorm:"size:300"`
	Description      string `json:"description" gorm:"type:text;not null"`

	// Registration numbers
	InventoryNumber string `json:"inventory_number" gorm:"size:100;not null;uniqueIndex"`
	CatalogNumber   string `json:"catalog_number" gorm:"size:100"`
	Barcode         string `json:"barcode" gorm:"size:50"`

	// Classification
	CategoryID *uint  `json:"category_id" gorm:"index"`
	Tags       string `json:"tags" gorm:"size:300"`

	// Provenance
	AcquisitionDate   *time.Time `json:"acquisition_date" gorm:"type:date"`
	AcquisitionSource string     `json:"acquisition_source" gorm:"size:300"`
	CreationDate      string     `json:"creation_date" gorm:"size:100"`
	Author            string     `json:"author" gorm:"size:200"`
	HistoricalContext string     `json:"historical_context" gorm:"type:text"`

	// Physical characteristics
	Condition       string `json:"condition" gorm:"type:text"`
	StorageLocation string `json:"storage_location" gorm:"size:200"`
	Size            string `json:"size" gorm:"size:100"`
	Weight          string `json:"weight" gorm:"size:50"`
	Material        string `json:"material" gorm:"size:200"`
	Color           string `json:"color" gorm:"size:100"`

	// Valuation
	EstimatedValue *float64 `json:"estimated_value" gorm:"type:decimal(10,2)"`
	InsuranceValue *float64 `json:"insurance_value" gorm:"type:decimal(10,2)"`

	// System fields
	Status           ExhibitStatus `json:"status" gorm:"type:varchar(20);not null;default:'draft';index"`
	IsFeatured       bool          `json:"is_featured" gorm:"not null;default:false;index"`
	CreatedByID      *uint         `json:"created_by_id"`
	LastModifiedByID *uint         `json:"last_modified_by_id"`

	// Relationships
	Category       *Category        `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	CreatedBy      *User            `json:"created_by,omitempty" gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL"`
	LastModifiedBy *User            `json:"last_modified_by,omitempty" gorm:"foreignKey:LastModifiedByID;constraint:OnDelete:SET NULL"`
	Photos         []ExhibitPhoto   `json:"photos,omitempty" gorm:"foreignKey:ExhibitID;constraint:OnDelete:CASCADE"`
	Documents      []Document       `json:"documents,omitempty" gorm:"foreignKey:ExhibitID;constraint:OnDelete:CASCADE"`
	History        []ExhibitHistory `json:"history,omitempty" gorm:"foreignKey:ExhibitID;constraint:OnDelete:CASCADE"`
}

// ExhibitPhoto is one of several images of an exhibit. At most one photo per
// exhibit carries IsPrimary; PhotoService maintains that on every write.
type ExhibitPhoto struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	ExhibitID    uint      `json:"exhibit_id" gorm:"not null;index"`
	Image        string    `json:"image" gorm:"size:500;not null"`
	Title        string    `json:"title" gorm:"size:200"`
	Description  string    `json:"description" gorm:"type:text"`
	IsPrimary    bool      `json:"is_primary" gorm:"not null;default:false;index"`
	UploadedAt   time.Time `json:"uploaded_at" gorm:"autoCreateTime"`
	UploadedByID *uint     `json:"uploaded_by_id"`

	// Relationships
	UploadedBy *User `json:"uploaded_by,omitempty" gorm:"foreignKey:UploadedByID;constraint:OnDelete:SET NULL"`
}

type Document struct {
	ID           uint         `json:"id" gorm:"primaryKey"`
	ExhibitID    uint         `json:"exhibit_id" gorm:"not null;index"`
	File         string       `json:"file" gorm:"size:500;not null"`
	Title        string       `json:"title" gorm:"size:200;not null"`
	DocumentType DocumentType `json:"document_type" gorm:"type:varchar(20);not null;default:'other'"`
	Description  string       `json:"description" gorm:"type:text"`
	UploadDate   time.Time    `json:"upload_date" gorm:"autoCreateTime;index"`
	UploadedByID *uint        `json:"uploaded_by_id"`

	// Relationships
	UploadedBy *User `json:"uploaded_by,omitempty" gorm:"foreignKey:UploadedByID;constraint:OnDelete:SET NULL"`
}

// ExhibitHistory rows are written once and never updated.
type ExhibitHistory struct {
	ID            uint              `json:"id" gorm:"primaryKey"`
	ExhibitID     uint              `json:"exhibit_id" gorm:"not null;index"`
	Action        HistoryAction     `json:"action" gorm:"type:varchar(20);not null;index"`
	ChangedByID   *uint             `json:"changed_by_id"`
	ChangedAt     time.Time         `json:"changed_at" gorm:"autoCreateTime;index"`
	Description   string            `json:"description" gorm:"type:text"`
	ChangedFields datatypes.JSONMap `json:"changed_fields"`

	// Relationships
	ChangedBy *User `json:"changed_by,omitempty" gorm:"foreignKey:ChangedByID;constraint:OnDelete:SET NULL"`
}

func (ExhibitHistory) TableName() string {
	return "exhibit_history"
}
