package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent RoleType = "student"
	RoleAdmin   RoleType = "admin"
)

// Valid reports whether r is a known role
func (r RoleType) Valid() bool {
	return r == RoleStudent || r == RoleAdmin
}

// ResourceType is the category of an uploaded resource
type ResourceType string

const (
	ResourceTypeNotes     ResourceType = "notes"
	ResourceTypeTutorials ResourceType = "tutorials"
	ResourceTypeReference ResourceType = "reference"
	ResourceTypePapers    ResourceType = "papers"
	ResourceTypePoster    ResourceType = "poster"
)

// ResourceTypes lists every resource type in display order
var ResourceTypes = []ResourceType{
	ResourceTypeNotes,
	ResourceTypeTutorials,
	ResourceTypeReference,
	ResourceTypePapers,
	ResourceTypePoster,
}

var resourceTypeLabels = map[ResourceType]string{
	ResourceTypeNotes:     "Lecture Notes",
	ResourceTypeTutorials: "Tutorials",
	ResourceTypeReference: "Reference Material",
	ResourceTypePapers:    "Past Papers",
	ResourceTypePoster:    "Event Poster",
}

// Valid reports whether t is one of the known resource types
func (t ResourceType) Valid() bool {
	_, ok := resourceTypeLabels[t]
	return ok
}

// Label returns the human readable name of the type
func (t ResourceType) Label() string {
	if label, ok := resourceTypeLabels[t]; ok {
		return label
	}
	return string(t)
}
