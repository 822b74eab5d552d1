package analyses

import (
	"docanalyzer-backend/internal/actions"
	"docanalyzer-backend/internal/doctype"
)

type listResponse struct {
	Documents    []Summary `json:"documents"`
	TotalCount   int       `json:"total_count"`
	StorageStats Stats     `json:"storage_stats"`
}

type deleteResponse struct {
	Message    string `json:"message"`
	DocumentID string `json:"document_id"`
}

type supportedTypesResponse struct {
	SupportedDocumentTypes []doctype.Type `json:"supported_document_types"`
	Count                  int            `json:"count"`
}

type actionsResponse struct {
	DocumentID       string           `json:"document_id"`
	DocumentType     doctype.Type     `json:"document_type"`
	Actions          []actions.Action `json:"actions"`
	TotalActions     int              `json:"total_actions"`
	PendingActions   int              `json:"pending_actions"`
	CompletedActions int              `json:"completed_actions"`
}
