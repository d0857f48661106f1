package models

import "time"

// Resource is an uploaded study file, optionally attached to a unit
type Resource struct {
	ID           int64        `json:"id" db:"id"`
	Title        string       `json:"title" db:"title"`
	UnitID       *int64       `json:"unitId,omitempty" db:"unit_id"`
	ResourceType ResourceType `json:"resourceType" db:"resource_type"`
	FilePath     string       `json:"filePath" db:"file_path"`
	UploadedBy   *int64       `json:"uploadedBy,omitempty" db:"uploaded_by"`
	UploadedAt   time.Time    `json:"uploadedAt" db:"uploaded_at"`
	Description  string       `json:"description" db:"description"`

	// Joined display fields
	UnitTitle          string `json:"unitTitle,omitempty" db:"unit_title"`
	UploadedByUsername string `json:"uploadedByUsername,omitempty" db:"uploaded_by_username"`
}

// ResourceFilter narrows resource listings. Nil fields do not filter.
type ResourceFilter struct {
	Type        *ResourceType
	ExcludeType *ResourceType
	UnitID      *int64
}
