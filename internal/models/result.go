package models

import "time"

type SelectDocumentRequest struct {
	FileName string `json:"file_name" validate:"required,max=255"`
	DataURL  string `json:"data_url" validate:"required,startswith=data:"`
}

type RoleRequest struct {
	TargetRole string `json:"target_role" validate:"max=50"`
}

type ValidationErrorView struct {
	Code    ValidationError `json:"code"`
	Message string          `json:"message"`
}

type DocumentView struct {
	DisplayName string `json:"display_name"`
	MediaType   string `json:"media_type"`
	SizeBytes   int64  `json:"size_bytes"`
}

type SessionResponse struct {
	ID              string               `json:"id"`
	Status          string               `json:"status"`
	Document        *DocumentView        `json:"document,omitempty"`
	TargetRole      string               `json:"target_role"`
	ValidationError *ValidationErrorView `json:"validation_error,omitempty"`
	ErrorMessage    *string              `json:"error_message,omitempty"`
	Result          *AnalysisResult      `json:"result,omitempty"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

type UploadResponse struct {
	ID       string        `json:"id"`
	Document *DocumentInfo `json:"document"`
}

type SubmitResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type ResultResponse struct {
	ID           string          `json:"id"`
	Status       string          `json:"status"`
	Result       *AnalysisResult `json:"result,omitempty"`
	ErrorMessage *string         `json:"error_message,omitempty"`
}
