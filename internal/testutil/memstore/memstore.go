// Package memstore provides in-memory stores with the same contracts as the
// PostgreSQL repositories, including cascade and SET NULL behaviour.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/yigit/clubhub/internal/app/models"
	"github.com/yigit/clubhub/internal/pkg/apperrors"
)

// Store holds every table. Use the accessor methods to get per-entity stores.
type Store struct {
	mu        sync.Mutex
	nextID    int64
	users     map[int64]models.User
	sessions  map[string]models.Session
	years     map[int64]models.AcademicYear
	units     map[int64]models.Unit
	resources map[int64]models.Resource
	events    map[int64]models.Event

	failResource error

	// Now stamps uploaded_at and created_at
	Now func() time.Time
}

// New creates an empty store
func New() *Store {
	return &Store{
		users:     make(map[int64]models.User),
		sessions:  make(map[string]models.Session),
		years:     make(map[int64]models.AcademicYear),
		units:     make(map[int64]models.Unit),
		resources: make(map[int64]models.Resource),
		events:    make(map[int64]models.Event),
		Now:       time.Now,
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// Users returns the user store
func (s *Store) Users() *Users { return &Users{s} }

// Sessions returns the session store
func (s *Store) Sessions() *Sessions { return &Sessions{s} }

// Years returns the academic year store
func (s *Store) Years() *Years { return &Years{s} }

// Units returns the unit store
func (s *Store) Units() *Units { return &Units{s} }

// Resources returns the resource store
func (s *Store) Resources() *Resources { return &Resources{s} }

// Events returns the event store
func (s *Store) Events() *Events { return &Events{s} }

// Users implements the user repository contract
type Users struct{ s *Store }

func (r *Users) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == user.Username {
			return apperrors.NewValidationError("username", "A user with that username already exists.")
		}
	}
	if user.RoleType == "" {
		user.RoleType = models.RoleStudent
	}
	user.ID = r.s.id()
	user.CreatedAt = r.s.Now()
	r.s.users[user.ID] = *user
	return nil
}

func (r *Users) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return &u, nil
}

func (r *Users) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *Users) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	if apperrors.Is(err, apperrors.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *Users) UpdateLastLogin(_ context.Context, userID int64, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return nil
	}
	u.LastLoginAt = &at
	r.s.users[userID] = u
	return nil
}

func (r *Users) UpdatePrivileges(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[user.ID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.RoleType, u.IsStaff, u.IsSuperuser, u.IsActive = user.RoleType, user.IsStaff, user.IsSuperuser, user.IsActive
	r.s.users[user.ID] = u
	return nil
}

// Delete removes a user, clearing uploaded_by and created_by references
func (r *Users) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return apperrors.ErrUserNotFound
	}
	delete(r.s.users, id)
	for sid, sess := range r.s.sessions {
		if sess.UserID == id {
			delete(r.s.sessions, sid)
		}
	}
	for rid, res := range r.s.resources {
		if res.UploadedBy != nil && *res.UploadedBy == id {
			res.UploadedBy = nil
			r.s.resources[rid] = res
		}
	}
	for eid, e := range r.s.events {
		if e.CreatedBy != nil && *e.CreatedBy == id {
			e.CreatedBy = nil
			r.s.events[eid] = e
		}
	}
	return nil
}

func (r *Users) Count(_ context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.users), nil
}

// Sessions implements the session repository contract
type Sessions struct{ s *Store }

func (r *Sessions) Create(_ context.Context, session *models.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	session.CreatedAt = r.s.Now()
	r.s.sessions[session.ID] = *session
	return nil
}

func (r *Sessions) GetByID(_ context.Context, id string) (*models.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sess, ok := r.s.sessions[id]
	if !ok {
		return nil, apperrors.ErrSessionRevoked
	}
	return &sess, nil
}

func (r *Sessions) Revoke(_ context.Context, id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sess, ok := r.s.sessions[id]
	if !ok || sess.RevokedAt != nil {
		return nil
	}
	sess.RevokedAt = &at
	r.s.sessions[id] = sess
	return nil
}

func (r *Sessions) DeleteExpired(_ context.Context, cutoff time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, sess := range r.s.sessions {
		if sess.ExpiresAt.Before(cutoff) || sess.RevokedAt != nil {
			delete(r.s.sessions, id)
			n++
		}
	}
	return n, nil
}

// Years implements the academic year repository contract
type Years struct{ s *Store }

func (r *Years) create(year *models.AcademicYear) error {
	if !models.ValidYear(year.Year) {
		return apperrors.NewValidationError("year", "Select a valid choice.")
	}
	for _, y := range r.s.years {
		if y.Year == year.Year {
			return apperrors.NewValidationError("year", "Academic year with this Year already exists.")
		}
	}
	year.ID = r.s.id()
	r.s.years[year.ID] = *year
	return nil
}

func (r *Years) Create(_ context.Context, year *models.AcademicYear) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.create(year)
}

func (r *Years) Update(_ context.Context, year *models.AcademicYear) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.years[year.ID]; !ok {
		return apperrors.ErrAcademicYearNotFound
	}
	if !models.ValidYear(year.Year) {
		return apperrors.NewValidationError("year", "Select a valid choice.")
	}
	for id, y := range r.s.years {
		if id != year.ID && y.Year == year.Year {
			return apperrors.NewValidationError("year", "Academic year with this Year already exists.")
		}
	}
	r.s.years[year.ID] = *year
	return nil
}

func (r *Years) EnsureYears(_ context.Context, years []int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, y := range years {
		err := r.create(&models.AcademicYear{Year: y})
		if err != nil && apperrors.FieldErrors(err)["year"] != "Academic year with this Year already exists." {
			return err
		}
	}
	return nil
}

func (r *Years) GetByID(_ context.Context, id int64) (*models.AcademicYear, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	y, ok := r.s.years[id]
	if !ok {
		return nil, apperrors.ErrAcademicYearNotFound
	}
	return &y, nil
}

func (r *Years) GetAll(_ context.Context) ([]*models.AcademicYear, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.AcademicYear, 0, len(r.s.years))
	for _, y := range r.s.years {
		y := y
		out = append(out, &y)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out, nil
}

// Delete removes a year and its units. Resources of those units lose their unit.
func (r *Years) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.years[id]; !ok {
		return apperrors.ErrAcademicYearNotFound
	}
	delete(r.s.years, id)
	for uid, u := range r.s.units {
		if u.YearID == id {
			r.s.deleteUnit(uid)
		}
	}
	return nil
}

// Units implements the unit repository contract
type Units struct{ s *Store }

func (s *Store) deleteUnit(id int64) {
	delete(s.units, id)
	for rid, res := range s.resources {
		if res.UnitID != nil && *res.UnitID == id {
			res.UnitID = nil
			s.resources[rid] = res
		}
	}
}

func (s *Store) withYear(u models.Unit) *models.Unit {
	u.Year = s.years[u.YearID].Year
	return &u
}

func (r *Units) Create(_ context.Context, unit *models.Unit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.years[unit.YearID]; !ok {
		return apperrors.NewValidationError("year", "Select a valid choice.")
	}
	unit.ID = r.s.id()
	unit.Year = r.s.years[unit.YearID].Year
	r.s.units[unit.ID] = *unit
	return nil
}

func (r *Units) Update(_ context.Context, unit *models.Unit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.years[unit.YearID]; !ok {
		return apperrors.NewValidationError("year", "Select a valid choice.")
	}
	if _, ok := r.s.units[unit.ID]; !ok {
		return apperrors.ErrUnitNotFound
	}
	unit.Year = r.s.years[unit.YearID].Year
	r.s.units[unit.ID] = *unit
	return nil
}

func (r *Units) GetByID(_ context.Context, id int64) (*models.Unit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.units[id]
	if !ok {
		return nil, apperrors.ErrUnitNotFound
	}
	return r.s.withYear(u), nil
}

func (r *Units) GetAll(_ context.Context) ([]*models.Unit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.Unit, 0, len(r.s.units))
	for _, u := range r.s.units {
		out = append(out, r.s.withYear(u))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Title < out[j].Title
	})
	return out, nil
}

func (r *Units) GetByYearID(_ context.Context, yearID int64) ([]*models.Unit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*models.Unit{}
	for _, u := range r.s.units {
		if u.YearID == yearID {
			out = append(out, r.s.withYear(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (r *Units) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.units[id]; !ok {
		return apperrors.ErrUnitNotFound
	}
	r.s.deleteUnit(id)
	return nil
}

func (r *Units) Count(_ context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.units), nil
}

// Resources implements the resource repository contract
type Resources struct{ s *Store }

// FailNextWrite makes the next Create, Update or Delete fail with err
func (r *Resources) FailNextWrite(err error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.failResource = err
}

func (s *Store) takeResourceFailure() error {
	err := s.failResource
	s.failResource = nil
	return err
}

func (s *Store) joinResource(res models.Resource) *models.Resource {
	res.UnitTitle = ""
	if res.UnitID != nil {
		res.UnitTitle = s.units[*res.UnitID].Title
	}
	res.UploadedByUsername = ""
	if res.UploadedBy != nil {
		res.UploadedByUsername = s.users[*res.UploadedBy].Username
	}
	return &res
}

func (s *Store) checkUnit(unitID *int64) error {
	if unitID == nil {
		return nil
	}
	if _, ok := s.units[*unitID]; !ok {
		return apperrors.NewValidationError("unit", "Select a valid choice.")
	}
	return nil
}

func (r *Resources) Create(_ context.Context, res *models.Resource) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeResourceFailure(); err != nil {
		return err
	}
	if err := r.s.checkUnit(res.UnitID); err != nil {
		return err
	}
	res.ID = r.s.id()
	if res.UploadedAt.IsZero() {
		res.UploadedAt = r.s.Now()
	}
	r.s.resources[res.ID] = *res
	return nil
}

func (r *Resources) Update(_ context.Context, res *models.Resource) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeResourceFailure(); err != nil {
		return err
	}
	stored, ok := r.s.resources[res.ID]
	if !ok {
		return apperrors.ErrResourceNotFound
	}
	if err := r.s.checkUnit(res.UnitID); err != nil {
		return err
	}
	stored.Title = res.Title
	stored.UnitID = res.UnitID
	stored.ResourceType = res.ResourceType
	stored.FilePath = res.FilePath
	stored.Description = res.Description
	r.s.resources[res.ID] = stored
	return nil
}

func (r *Resources) GetByID(_ context.Context, id int64) (*models.Resource, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	res, ok := r.s.resources[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	return r.s.joinResource(res), nil
}

func matches(res models.Resource, f models.ResourceFilter) bool {
	if f.Type != nil && res.ResourceType != *f.Type {
		return false
	}
	if f.ExcludeType != nil && res.ResourceType == *f.ExcludeType {
		return false
	}
	if f.UnitID != nil && (res.UnitID == nil || *res.UnitID != *f.UnitID) {
		return false
	}
	return true
}

func (r *Resources) List(_ context.Context, filter models.ResourceFilter) ([]*models.Resource, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*models.Resource{}
	for _, res := range r.s.resources {
		if matches(res, filter) {
			out = append(out, r.s.joinResource(res))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UploadedAt.Equal(out[j].UploadedAt) {
			return out[i].UploadedAt.After(out[j].UploadedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *Resources) Count(ctx context.Context, filter models.ResourceFilter) (int, error) {
	list, err := r.List(ctx, filter)
	return len(list), err
}

func (r *Resources) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeResourceFailure(); err != nil {
		return err
	}
	if _, ok := r.s.resources[id]; !ok {
		return apperrors.ErrResourceNotFound
	}
	delete(r.s.resources, id)
	return nil
}

// Events implements the event repository contract
type Events struct{ s *Store }

func checkSchedule(e *models.Event) error {
	if e.End != nil && !e.End.After(e.Start) {
		return apperrors.NewValidationError("end", "End time must be after the start time.")
	}
	return nil
}

func (r *Events) Create(_ context.Context, e *models.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := checkSchedule(e); err != nil {
		return err
	}
	e.ID = r.s.id()
	e.CreatedAt = r.s.Now()
	r.s.events[e.ID] = *e
	return nil
}

func (r *Events) Update(_ context.Context, e *models.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := checkSchedule(e); err != nil {
		return err
	}
	stored, ok := r.s.events[e.ID]
	if !ok {
		return apperrors.ErrEventNotFound
	}
	e.CreatedAt = stored.CreatedAt
	e.CreatedBy = stored.CreatedBy
	r.s.events[e.ID] = *e
	return nil
}

func (r *Events) GetByID(_ context.Context, id int64) (*models.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.events[id]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	return &e, nil
}

func (r *Events) filter(keep func(models.Event) bool, less func(a, b *models.Event) bool) []*models.Event {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*models.Event{}
	for _, e := range r.s.events {
		if keep(e) {
			e := e
			out = append(out, &e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func (r *Events) GetAll(_ context.Context) ([]*models.Event, error) {
	return r.filter(
		func(models.Event) bool { return true },
		func(a, b *models.Event) bool { return a.Start.After(b.Start) },
	), nil
}

func (r *Events) ListUpcoming(_ context.Context, now time.Time) ([]*models.Event, error) {
	return r.filter(
		func(e models.Event) bool { return !e.Start.Before(now) },
		func(a, b *models.Event) bool { return a.Start.Before(b.Start) },
	), nil
}

func (r *Events) ListPast(_ context.Context, now time.Time) ([]*models.Event, error) {
	return r.filter(
		func(e models.Event) bool { return e.Start.Before(now) },
		func(a, b *models.Event) bool { return a.Start.After(b.Start) },
	), nil
}

func (r *Events) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.events[id]; !ok {
		return apperrors.ErrEventNotFound
	}
	delete(r.s.events, id)
	return nil
}

func (r *Events) Count(_ context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.events), nil
}
