package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/museum-backend/internal/models"
)

func TestDocumentLifecycle(t *testing.T) {
	db := newTestDB(t)
	historyService := NewHistoryService(db)
	documentService := NewDocumentService(db, historyService, nil)

	exhibit, err := NewExhibitService(db, historyService, nil).
		CreateExhibit(0, exhibitRequest("INV-200", "Diploma", ""))
	require.NoError(t, err)

	document, err := documentService.AddDocument(exhibit.ID, 0, &AddDocumentRequest{
		File:  "exhibit_docs/diploma.pdf",
		Title: "Award certificate",
	})
	require.NoError(t, err)
	assert.Equal(t, models.DocumentTypeOther, document.DocumentType)

	_, err = documentService.AddDocument(exhibit.ID, 0, &AddDocumentRequest{
		File:         "exhibit_docs/x.pdf",
		Title:        "Bad type",
		DocumentType: "poster",
	})
	assert.ErrorIs(t, err, ErrValidation)

	history, err := historyService.ListHistory(exhibit.ID, 1)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.HistoryActionDocumentAdded, history[0].Action)
	assert.Equal(t, "Document added: Award certificate", history[0].Description)

	documents, err := documentService.ListDocuments(exhibit.ID)
	require.NoError(t, err)
	require.Len(t, documents, 1)

	require.NoError(t, documentService.DeleteDocument(document.ID))
	assert.ErrorIs(t, documentService.DeleteDocument(document.ID), ErrNotFound)
}
