// internal/models/common.go
package models

import (
	"time"
)

// Base model with common fields
type BaseModel struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Enums
type ExhibitStatus string

const (
	ExhibitStatusDraft     ExhibitStatus = "draft"
	ExhibitStatusPublished ExhibitStatus = "published"
	ExhibitStatusArchived  ExhibitStatus = "archived"
	ExhibitStatusRepair    ExhibitStatus = "repair"
)

func (s ExhibitStatus) Valid() bool {
	switch s {
	case ExhibitStatusDraft, ExhibitStatusPublished, ExhibitStatusArchived, ExhibitStatusRepair:
		return true
	}
	return false
}

type DocumentType string

const (
	DocumentTypeScan        DocumentType = "scan"
	DocumentTypeCertificate DocumentType = "certificate"
	DocumentTypeManual      DocumentType = "manual"
	DocumentTypeResearch    DocumentType = "research"
	DocumentTypeAct         DocumentType = "act"
	DocumentTypeOther       DocumentType = "other"
)

func (t DocumentType) Valid() bool {
	switch t {
	case DocumentTypeScan, DocumentTypeCertificate, DocumentTypeManual,
		DocumentTypeResearch, DocumentTypeAct, DocumentTypeOther:
		return true
	}
	return false
}

type HistoryAction string

const (
	HistoryActionCreated       HistoryAction = "created"
	HistoryActionUpdated       HistoryAction = "updated"
	HistoryActionPublished     HistoryAction = "published"
	HistoryActionArchived      HistoryAction = "archived"
	HistoryActionRestored      HistoryAction = "restored"
	HistoryActionPhotoAdded    HistoryAction = "photo_added"
	HistoryActionDocumentAdded HistoryAction = "document_added"
	HistoryActionStatusChanged HistoryAction = "status_changed"
)

func (a HistoryAction) Valid() bool {
	switch a {
	case HistoryActionCreated, HistoryActionUpdated, HistoryActionPublished,
		HistoryActionArchived, HistoryActionRestored, HistoryActionPhotoAdded,
		HistoryActionDocumentAdded, HistoryActionStatusChanged:
		return true
	}
	return false
}
