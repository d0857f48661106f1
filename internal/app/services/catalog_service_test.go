package services

import (
	"errors"
	"testing"

	"github.com/yigit/clubhub/internal/app/models"
	"github.com/yigit/clubhub/internal/app/models/dto"
	"github.com/yigit/clubhub/internal/pkg/apperrors"
	"github.com/yigit/clubhub/internal/testutil/memstore"
)

func TestUnitService_CreateThenListByYear(t *testing.T) {
	f := newFixture(t)
	year := f.year(t, 3)

	unit, err := f.units.Create(t.Context(), adminPrincipal(), &dto.UnitForm{Title: "  Operating Systems ", Code: "CS301", YearID: year.ID})
	if err != nil {
		t.Fatalf("create unit: %v", err)
	}
	if unit.Title != "Operating Systems" {
		t.Errorf("title = %q, want trimmed", unit.Title)
	}

	listing, err := f.years.UnitsByYear(t.Context(), year.ID)
	if err != nil {
		t.Fatalf("units by year: %v", err)
	}
	if len(listing.Units) != 1 || listing.Units[0].ID != unit.ID {
		t.Fatalf("units = %+v, want [%d]", listing.Units, unit.ID)
	}
	if listing.Year.Label() != "3rd Year" {
		t.Errorf("year label = %q", listing.Year.Label())
	}
}

func TestUnitService_Create_Validation(t *testing.T) {
	f := newFixture(t)
	year := f.year(t, 1)

	tests := []struct {
		name  string
		form  dto.UnitForm
		field string
		msg   string
	}{
		{"missing title", dto.UnitForm{YearID: year.ID}, "title", "This field is required."},
		{"blank title", dto.UnitForm{Title: "   ", YearID: year.ID}, "title", "This field is required."},
		{"missing year", dto.UnitForm{Title: "Maths"}, "year", "This field is required."},
		{"unknown year", dto.UnitForm{Title: "Maths", YearID: 999}, "year", "Select a valid choice."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			form := tc.form
			_, err := f.units.Create(t.Context(), adminPrincipal(), &form)
			assertFieldError(t, err, tc.field, tc.msg)
		})
	}

	if n, _ := f.store.Units().Count(t.Context()); n != 0 {
		t.Errorf("expected no units, got %d", n)
	}
}

func TestUnitService_NonAdminCannotChangeUnits(t *testing.T) {
	f := newFixture(t)
	year := f.year(t, 1)
	unit := f.unit(t, year.ID, "Maths")

	if _, err := f.units.Create(t.Context(), studentPrincipal(), &dto.UnitForm{Title: "Physics", YearID: year.ID}); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("create: expected permission denied, got %v", err)
	}
	if _, err := f.units.Update(t.Context(), studentPrincipal(), unit.ID, &dto.UnitForm{Title: "Changed", YearID: year.ID}); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("update: expected permission denied, got %v", err)
	}
	if err := f.units.Delete(t.Context(), studentPrincipal(), unit.ID); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("delete: expected permission denied, got %v", err)
	}

	got, err := f.units.Get(t.Context(), unit.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Maths" {
		t.Errorf("unit changed to %q", got.Title)
	}
}

func TestUnitService_Update(t *testing.T) {
	f := newFixture(t)
	first := f.year(t, 1)
	second := f.year(t, 2)
	unit := f.unit(t, first.ID, "Maths")

	updated, err := f.units.Update(t.Context(), adminPrincipal(), unit.ID, &dto.UnitForm{Title: "Maths II", Code: "MA2", YearID: second.ID})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.YearID != second.ID || updated.Title != "Maths II" || updated.Code != "MA2" {
		t.Errorf("updated = %+v", updated)
	}

	if _, err := f.units.Update(t.Context(), adminPrincipal(), 999, &dto.UnitForm{Title: "x", YearID: first.ID}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestUnitService_DeleteKeepsResources(t *testing.T) {
	f := newFixture(t)
	year := f.year(t, 1)
	unit := f.unit(t, year.ID, "Maths")
	res, err := f.resources.Create(t.Context(), adminPrincipal(), resourceForm("Notes", models.ResourceTypeNotes, unit.ID),
		memstore.FileHeader(t, "file", "notes.pdf", []byte("notes")))
	if err != nil {
		t.Fatalf("create resource: %v", err)
	}

	if err := f.units.Delete(t.Context(), adminPrincipal(), unit.ID); err != nil {
		t.Fatalf("delete unit: %v", err)
	}

	got, err := f.resources.Get(t.Context(), res.ID)
	if err != nil {
		t.Fatalf("resource gone after unit delete: %v", err)
	}
	if got.UnitID != nil {
		t.Errorf("unit_id = %d, want NULL", *got.UnitID)
	}
}

func TestAcademicYearService_DeleteCascadesUnits(t *testing.T) {
	f := newFixture(t)
	year := f.year(t, 2)
	other := f.year(t, 4)
	a := f.unit(t, year.ID, "Algorithms")
	f.unit(t, year.ID, "Databases")
	kept := f.unit(t, other.ID, "Compilers")

	res, err := f.resources.Create(t.Context(), adminPrincipal(), resourceForm("Sorting", models.ResourceTypeNotes, a.ID),
		memstore.FileHeader(t, "file", "sorting.pdf", []byte("sorting")))
	if err != nil {
		t.Fatalf("create resource: %v", err)
	}

	if err := f.years.Delete(t.Context(), studentPrincipal(), year.ID); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("student delete: expected permission denied, got %v", err)
	}
	if err := f.years.Delete(t.Context(), adminPrincipal(), year.ID); err != nil {
		t.Fatalf("delete year: %v", err)
	}

	units, err := f.store.Units().GetByYearID(t.Context(), year.ID)
	if err != nil {
		t.Fatalf("units by year: %v", err)
	}
	if len(units) != 0 {
		t.Errorf("expected 0 units for deleted year, got %d", len(units))
	}
	if _, err := f.years.UnitsByYear(t.Context(), year.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected not found for deleted year, got %v", err)
	}
	if _, err := f.units.Get(t.Context(), kept.ID); err != nil {
		t.Errorf("unit of another year removed: %v", err)
	}

	got, err := f.resources.Get(t.Context(), res.ID)
	if err != nil {
		t.Fatalf("resource removed with its year: %v", err)
	}
	if got.UnitID != nil {
		t.Errorf("unit_id = %d, want NULL", *got.UnitID)
	}
}

func TestAcademicYearService_Create(t *testing.T) {
	f := newFixture(t)

	year, err := f.years.Create(t.Context(), adminPrincipal(), &dto.AcademicYearForm{Year: 5})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if year.Label() != "5th Year" {
		t.Errorf("label = %q", year.Label())
	}

	_, err = f.years.Create(t.Context(), adminPrincipal(), &dto.AcademicYearForm{Year: 5})
	assertFieldError(t, err, "year", "Academic year with this Year already exists.")

	_, err = f.years.Create(t.Context(), adminPrincipal(), &dto.AcademicYearForm{Year: 6})
	assertFieldError(t, err, "year", "Select a valid choice.")

	years, err := f.years.List(t.Context())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(years) != 1 {
		t.Errorf("expected 1 year, got %d", len(years))
	}
}

func TestAcademicYearService_Update(t *testing.T) {
	f := newFixture(t)
	first := f.year(t, 1)
	second := f.year(t, 2)

	updated, err := f.years.Update(t.Context(), adminPrincipal(), first.ID, &dto.AcademicYearForm{Year: 4})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != first.ID || updated.Label() != "4th Year" {
		t.Errorf("updated = %+v", updated)
	}

	_, err = f.years.Update(t.Context(), adminPrincipal(), first.ID, &dto.AcademicYearForm{Year: 2})
	assertFieldError(t, err, "year", "Academic year with this Year already exists.")

	_, err = f.years.Update(t.Context(), adminPrincipal(), first.ID, &dto.AcademicYearForm{Year: 6})
	assertFieldError(t, err, "year", "Select a valid choice.")

	// Saving a year under its own value is not a duplicate
	if _, err := f.years.Update(t.Context(), adminPrincipal(), second.ID, &dto.AcademicYearForm{Year: 2}); err != nil {
		t.Errorf("unchanged update: %v", err)
	}

	if _, err := f.years.Update(t.Context(), studentPrincipal(), first.ID, &dto.AcademicYearForm{Year: 5}); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("student update: expected permission denied, got %v", err)
	}
	if _, err := f.years.Update(t.Context(), adminPrincipal(), 999, &dto.AcademicYearForm{Year: 5}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("missing year: expected not found, got %v", err)
	}

	got, err := f.years.Get(t.Context(), first.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Year != 4 {
		t.Errorf("stored year = %d, want 4", got.Year)
	}
}
