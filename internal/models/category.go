// internal/models/category.go
package models

const DefaultCategoryIcon = "fas fa-box"

// Category groups exhibits (documents, photographs, awards...). Categories
// form a tree through ParentID; the tree is kept acyclic by CategoryService.
type Category struct {
	BaseModel
	Name        string `json:"name" gorm:"size:200;not null;index"`
	Description string `json:"description" gorm:"type:text"`
	ParentID    *uint  `json:"parent_id" gorm:"index"`
	Icon        string `json:"icon" gorm:"size:50;default:'fas fa-box'"`

	// Relationships
	Parent *Category `json:"parent,omitempty" gorm:"foreignKey:ParentID;constraint:OnDelete:SET NULL"`
}
