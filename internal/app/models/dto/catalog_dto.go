package dto

import (
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/yigit/clubhub/internal/app/models"
	"github.com/yigit/clubhub/internal/pkg/apperrors"
	"github.com/yigit/clubhub/internal/pkg/helpers"
	"github.com/yigit/clubhub/internal/pkg/validation"
)

// FileTooLargeMessage is shown when an upload exceeds maxBytes
func FileTooLargeMessage(maxBytes int64) string {
	return fmt.Sprintf("Max file size is %dMB", maxBytes/(1024*1024))
}

// AcademicYearForm represents the academic year creation form
type AcademicYearForm struct {
	Year int `form:"year" binding:"required,yearofstudy"`
}

// Validate checks that the year is one of the supported years of study
func (f *AcademicYearForm) Validate() error {
	if fields := validation.Struct(f); fields != nil {
		return apperrors.NewFieldErrors(fields)
	}
	return nil
}

// UnitForm represents the unit create and edit form
type UnitForm struct {
	Title  string `form:"title" binding:"required,max=100"`
	Code   string `form:"code" binding:"max=50"`
	YearID int64  `form:"year" binding:"required,gt=0"`
}

// Validate checks the unit fields
func (f *UnitForm) Validate() error {
	f.Title = strings.TrimSpace(f.Title)
	f.Code = strings.TrimSpace(f.Code)
	if fields := validation.Struct(f); fields != nil {
		return apperrors.NewFieldErrors(fields)
	}
	return nil
}

// FromUnit fills the form with the values of an existing unit
func (f *UnitForm) FromUnit(u *models.Unit) {
	f.Title = u.Title
	f.Code = u.Code
	f.YearID = u.YearID
}

// ResourceForm represents the resource create and edit form. The file is
// read separately from the multipart request.
type ResourceForm struct {
	Title        string `form:"title" binding:"required,max=150"`
	Unit         string `form:"unit"`
	ResourceType string `form:"resource_type" binding:"required,resourcetype"`
	Description  string `form:"description"`
}

// UnitID returns the selected unit, nil when none was chosen
func (f *ResourceForm) UnitID() (*int64, error) {
	return helpers.ParseOptionalID(f.Unit)
}

// Type returns the selected resource type
func (f *ResourceForm) Type() models.ResourceType {
	return models.ResourceType(f.ResourceType)
}

// Validate checks the fields and the upload. requireFile is set on create.
func (f *ResourceForm) Validate(file *multipart.FileHeader, requireFile bool, maxBytes int64) error {
	f.Title = strings.TrimSpace(f.Title)
	fields := validation.Struct(f)
	if fields == nil {
		fields = map[string]string{}
	}

	if _, err := f.UnitID(); err != nil {
		fields["unit"] = "Select a valid choice."
	}

	switch {
	case file == nil && requireFile:
		fields["file"] = "This field is required."
	case file != nil && file.Size > maxBytes:
		fields["file"] = FileTooLargeMessage(maxBytes)
	case file != nil && file.Size == 0:
		fields["file"] = "The submitted file is empty."
	}

	if len(fields) > 0 {
		return apperrors.NewFieldErrors(fields)
	}
	return nil
}

// FromResource fills the form with the values of an existing resource
func (f *ResourceForm) FromResource(r *models.Resource) {
	f.Title = r.Title
	f.ResourceType = string(r.ResourceType)
	f.Description = r.Description
	f.Unit = ""
	if r.UnitID != nil {
		f.Unit = fmt.Sprint(*r.UnitID)
	}
}
