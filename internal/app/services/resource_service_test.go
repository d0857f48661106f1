package services

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/yigit/clubhub/internal/app/models"
	"github.com/yigit/clubhub/internal/app/models/dto"
	"github.com/yigit/clubhub/internal/pkg/apperrors"
	"github.com/yigit/clubhub/internal/testutil/memstore"
)

func resourceForm(title string, t models.ResourceType, unitID int64) *dto.ResourceForm {
	form := &dto.ResourceForm{Title: title, ResourceType: string(t)}
	if unitID > 0 {
		form.Unit = fmt.Sprint(unitID)
	}
	return form
}

func TestResourceService_Create_RejectsOversizeFile(t *testing.T) {
	f := newFixture(t)
	file := memstore.FileHeader(t, "file", "huge.pdf", []byte("%PDF-1.4"))
	file.Size = 21 * 1024 * 1024

	_, err := f.resources.Create(t.Context(), adminPrincipal(), resourceForm("Huge", models.ResourceTypeNotes, 0), file)
	assertFieldError(t, err, "file", "Max file size is 20MB")

	if n, _ := f.store.Resources().Count(t.Context(), models.ResourceFilter{}); n != 0 {
		t.Errorf("expected no resources, got %d", n)
	}
	if paths := f.files.Paths(); len(paths) != 0 {
		t.Errorf("expected no stored files, got %v", paths)
	}
}

func TestResourceService_Update_RejectsOversizeFile(t *testing.T) {
	f := newFixture(t)
	original := memstore.FileHeader(t, "file", "notes.pdf", []byte("%PDF-1.4"))
	res, err := f.resources.Create(t.Context(), adminPrincipal(), resourceForm("Notes", models.ResourceTypeNotes, 0), original)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	before := f.files.Paths()

	file := memstore.FileHeader(t, "file", "huge.pdf", []byte("%PDF-1.4"))
	file.Size = 21 * 1024 * 1024
	_, err = f.resources.Update(t.Context(), adminPrincipal(), res.ID, resourceForm("Renamed", models.ResourceTypeNotes, 0), file)
	assertFieldError(t, err, "file", "Max file size is 20MB")

	got, err := f.store.Resources().GetByID(t.Context(), res.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Notes" || got.FilePath != res.FilePath {
		t.Errorf("resource changed: title=%q path=%q", got.Title, got.FilePath)
	}
	if after := f.files.Paths(); !slices.Equal(after, before) {
		t.Errorf("stored files = %v, want %v", after, before)
	}
}

func TestResourceService_Create_RequiresFile(t *testing.T) {
	f := newFixture(t)

	_, err := f.resources.Create(t.Context(), adminPrincipal(), resourceForm("Notes", models.ResourceTypeNotes, 0), nil)
	assertFieldError(t, err, "file", "This field is required.")
}

func TestResourceService_Create_Permissions(t *testing.T) {
	f := newFixture(t)
	file := memstore.FileHeader(t, "file", "notes.pdf", []byte("notes"))

	_, err := f.resources.Create(t.Context(), studentPrincipal(), resourceForm("Notes", models.ResourceTypeNotes, 0), file)
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("student: expected permission denied, got %v", err)
	}

	_, err = f.resources.Create(t.Context(), nil, resourceForm("Notes", models.ResourceTypeNotes, 0), file)
	if !errors.Is(err, apperrors.ErrUnauthenticated) {
		t.Errorf("anonymous: expected unauthenticated, got %v", err)
	}

	if paths := f.files.Paths(); len(paths) != 0 {
		t.Errorf("expected no stored files, got %v", paths)
	}
}

func TestResourceService_Create_UnknownUnit(t *testing.T) {
	f := newFixture(t)
	file := memstore.FileHeader(t, "file", "notes.pdf", []byte("notes"))

	_, err := f.resources.Create(t.Context(), adminPrincipal(), resourceForm("Notes", models.ResourceTypeNotes, 999), file)
	assertFieldError(t, err, "unit", "Select a valid choice.")
}

func TestResourceService_PastPapersAreSeparated(t *testing.T) {
	f := newFixture(t)
	year := f.year(t, 2)
	unit := f.unit(t, year.ID, "Algorithms")

	paper, err := f.resources.Create(t.Context(), adminPrincipal(), resourceForm("Midterm 2023", models.ResourceTypePapers, unit.ID),
		memstore.FileHeader(t, "file", "midterm.pdf", []byte("%PDF-1.4 midterm")))
	if err != nil {
		t.Fatalf("create paper: %v", err)
	}
	notes, err := f.resources.Create(t.Context(), adminPrincipal(), resourceForm("Week 1", models.ResourceTypeNotes, unit.ID),
		memstore.FileHeader(t, "file", "week1.pdf", []byte("%PDF-1.4 week1")))
	if err != nil {
		t.Fatalf("create notes: %v", err)
	}

	papers, err := f.resources.PastPapers(t.Context())
	if err != nil {
		t.Fatalf("past papers: %v", err)
	}
	if len(papers) != 1 || papers[0].ID != paper.ID {
		t.Errorf("past papers = %v, want only %d", ids(papers), paper.ID)
	}

	study, err := f.resources.StudyResources(t.Context())
	if err != nil {
		t.Fatalf("study resources: %v", err)
	}
	if len(study) != 1 || study[0].ID != notes.ID {
		t.Errorf("study resources = %v, want only %d", ids(study), notes.ID)
	}
	if study[0].UnitTitle != "Algorithms" {
		t.Errorf("unit title = %q, want Algorithms", study[0].UnitTitle)
	}

	if paper.UploadedBy == nil || *paper.UploadedBy != adminPrincipal().UserID() {
		t.Errorf("uploaded_by = %v, want admin", paper.UploadedBy)
	}
	if !f.files.Has(paper.FilePath) {
		t.Errorf("file %s not stored", paper.FilePath)
	}
}

func TestResourceService_ByCategory(t *testing.T) {
	f := newFixture(t)
	year := f.year(t, 1)
	algo := f.unit(t, year.ID, "Algorithms")
	nets := f.unit(t, year.ID, "Networks")

	for _, u := range []*models.Unit{algo, nets} {
		if _, err := f.resources.Create(t.Context(), adminPrincipal(), resourceForm(u.Title+" tutorial", models.ResourceTypeTutorials, u.ID),
			memstore.FileHeader(t, "file", "t.pdf", []byte("tutorial"))); err != nil {
			t.Fatalf("create resource: %v", err)
		}
	}

	listing, err := f.resources.ByCategory(t.Context(), "tutorials", "")
	if err != nil {
		t.Fatalf("by category: %v", err)
	}
	if len(listing.Resources) != 2 || listing.Unit != nil {
		t.Errorf("unfiltered listing has %d resources, unit %v", len(listing.Resources), listing.Unit)
	}

	listing, err = f.resources.ByCategory(t.Context(), "tutorials", fmt.Sprint(nets.ID))
	if err != nil {
		t.Fatalf("by category with unit: %v", err)
	}
	if len(listing.Resources) != 1 || listing.Resources[0].UnitTitle != "Networks" {
		t.Errorf("unit listing = %v", ids(listing.Resources))
	}
	if listing.Unit == nil || listing.Unit.ID != nets.ID {
		t.Errorf("listing unit = %v, want %d", listing.Unit, nets.ID)
	}

	notFound := []struct {
		name, category, unit string
	}{
		{"unknown category", "memes", ""},
		{"malformed unit", "tutorials", "abc"},
		{"negative unit", "tutorials", "-1"},
		{"missing unit", "tutorials", "999"},
	}
	for _, tc := range notFound {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.resources.ByCategory(t.Context(), tc.category, tc.unit); !errors.Is(err, apperrors.ErrNotFound) {
				t.Errorf("expected not found, got %v", err)
			}
		})
	}
}

func TestResourceService_Create_RowFailureRemovesFile(t *testing.T) {
	f := newFixture(t)
	f.store.Resources().FailNextWrite(errors.New("connection reset"))

	_, err := f.resources.Create(t.Context(), adminPrincipal(), resourceForm("Notes", models.ResourceTypeNotes, 0),
		memstore.FileHeader(t, "file", "notes.pdf", []byte("notes")))
	if err == nil {
		t.Fatal("expected error")
	}
	if paths := f.files.Paths(); len(paths) != 0 {
		t.Errorf("orphaned files left behind: %v", paths)
	}
}

func TestResourceService_Update_ReplacesFile(t *testing.T) {
	f := newFixture(t)
	res, err := f.resources.Create(t.Context(), adminPrincipal(), resourceForm("Notes", models.ResourceTypeNotes, 0),
		memstore.FileHeader(t, "file", "v1.pdf", []byte("v1")))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	oldPath := res.FilePath

	kept, err := f.resources.Update(t.Context(), adminPrincipal(), res.ID, resourceForm("Notes (rev)", models.ResourceTypeReference, 0), nil)
	if err != nil {
		t.Fatalf("update without file: %v", err)
	}
	if kept.FilePath != oldPath || kept.Title != "Notes (rev)" || kept.ResourceType != models.ResourceTypeReference {
		t.Errorf("update without file = %+v", kept)
	}

	replaced, err := f.resources.Update(t.Context(), adminPrincipal(), res.ID, resourceForm("Notes (rev)", models.ResourceTypeReference, 0),
		memstore.FileHeader(t, "file", "v2.pdf", []byte("v2")))
	if err != nil {
		t.Fatalf("update with file: %v", err)
	}
	if replaced.FilePath == oldPath {
		t.Fatal("file path did not change")
	}
	if f.files.Has(oldPath) {
		t.Errorf("old file %s still stored", oldPath)
	}
	if !f.files.Has(replaced.FilePath) {
		t.Errorf("new file %s missing", replaced.FilePath)
	}
}

func TestResourceService_Update_RowFailureKeepsOldFile(t *testing.T) {
	f := newFixture(t)
	res, err := f.resources.Create(t.Context(), adminPrincipal(), resourceForm("Notes", models.ResourceTypeNotes, 0),
		memstore.FileHeader(t, "file", "v1.pdf", []byte("v1")))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	f.store.Resources().FailNextWrite(errors.New("connection reset"))
	if _, err := f.resources.Update(t.Context(), adminPrincipal(), res.ID, resourceForm("Notes", models.ResourceTypeNotes, 0),
		memstore.FileHeader(t, "file", "v2.pdf", []byte("v2"))); err == nil {
		t.Fatal("expected error")
	}

	paths := f.files.Paths()
	if len(paths) != 1 || paths[0] != res.FilePath {
		t.Errorf("stored files = %v, want only %s", paths, res.FilePath)
	}
}

func TestResourceService_Delete(t *testing.T) {
	f := newFixture(t)
	res, err := f.resources.Create(t.Context(), adminPrincipal(), resourceForm("Notes", models.ResourceTypeNotes, 0),
		memstore.FileHeader(t, "file", "notes.pdf", []byte("notes")))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := f.resources.Delete(t.Context(), studentPrincipal(), res.ID); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("student delete: expected permission denied, got %v", err)
	}

	f.store.Resources().FailNextWrite(errors.New("connection reset"))
	if err := f.resources.Delete(t.Context(), adminPrincipal(), res.ID); err == nil {
		t.Fatal("expected failed delete")
	}
	if !f.files.Has(res.FilePath) {
		t.Fatal("file not restored after failed delete")
	}

	if err := f.resources.Delete(t.Context(), adminPrincipal(), res.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if f.files.Has(res.FilePath) {
		t.Error("file still stored after delete")
	}
	if _, err := f.resources.Get(t.Context(), res.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected not found after delete, got %v", err)
	}
}

func ids(resources []*models.Resource) []int64 {
	out := make([]int64, 0, len(resources))
	for _, r := range resources {
		out = append(out, r.ID)
	}
	return out
}
