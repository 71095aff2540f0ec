package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vietanh2810/campus-events-api/internal/domain"
	"github.com/vietanh2810/campus-events-api/internal/repository"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newFakeUserRepo(users ...domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]domain.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.User{}, repository.ErrUserEmailExists
		}
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = user

	return user, nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) FindByIDs(_ context.Context, ids []string) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var users []domain.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, repository.ErrUserNotFound
}

func (r *fakeUserRepo) FindByRole(_ context.Context, role domain.Role) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var users []domain.User
	for _, u := range r.users {
		if u.Role == role {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	return users, nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, user domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[user.ID]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}
	stored.Name = user.Name
	stored.Contact = user.Contact
	stored.Department = user.Department
	stored.Photo = user.Photo
	r.users[user.ID] = stored

	return stored, nil
}

func (r *fakeUserRepo) DeleteWithRole(_ context.Context, id string, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	if u.Role != role {
		return repository.ErrInvalidUserRole
	}
	delete(r.users, id)

	return nil
}

// fakeEventRepo applies the same guards as the storage-level conditional
// writes, under one lock.
type fakeEventRepo struct {
	mu     sync.Mutex
	events map[string]domain.Event
	order  []string
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: map[string]domain.Event{}}
}

func (r *fakeEventRepo) Create(_ context.Context, event domain.Event) (domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	event.ID = uuid.NewString()
	event.CreatedAt = time.Now()
	event.UpdatedAt = event.CreatedAt
	r.events[event.ID] = event
	r.order = append(r.order, event.ID)

	return event, nil
}

func (r *fakeEventRepo) FindByID(_ context.Context, id string) (domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.events[id]
	if !ok {
		return domain.Event{}, repository.ErrEventNotFound
	}
	return copyEvent(e), nil
}

func (r *fakeEventRepo) FindAll(_ context.Context, filter domain.EventFilter) ([]domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var events []domain.Event
	for _, id := range r.order {
		e, ok := r.events[id]
		if !ok {
			continue
		}
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		if filter.CreatedByID != "" && e.CreatedByID != filter.CreatedByID {
			continue
		}
		if filter.StudentID != "" && !e.IsStudentRegistered(filter.StudentID) {
			continue
		}
		events = append(events, copyEvent(e))
	}
	return events, nil
}

func (r *fakeEventRepo) Update(_ context.Context, event domain.Event) (domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.events[event.ID]
	if !ok {
		return domain.Event{}, repository.ErrEventNotFound
	}
	event.RegisteredStudentIDs = stored.RegisteredStudentIDs
	event.Attendance = stored.Attendance
	event.IsRegistered = false
	r.events[event.ID] = event

	return copyEvent(event), nil
}

func (r *fakeEventRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.events[id]; !ok {
		return repository.ErrEventNotFound
	}
	delete(r.events, id)
	return nil
}

func (r *fakeEventRepo) AddRegistration(_ context.Context, eventID, studentID string, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.events[eventID]
	switch {
	case !ok:
		return repository.ErrEventNotFound
	case e.Status != domain.StatusApproved:
		return repository.ErrEventNotApproved
	case e.IsStudentRegistered(studentID):
		return repository.ErrAlreadyRegistered
	}
	e.RegisteredStudentIDs = append(e.RegisteredStudentIDs, studentID)
	r.events[eventID] = e

	return nil
}

func (r *fakeEventRepo) UpsertAttendance(_ context.Context, eventID string, rec domain.Attendance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.events[eventID]
	if !ok {
		return repository.ErrEventNotFound
	}
	if !e.IsStudentRegistered(rec.StudentID) {
		return repository.ErrStudentNotRegistered
	}
	e.Attendance = append([]domain.Attendance(nil), e.Attendance...)
	e.UpsertAttendance(rec)
	r.events[eventID] = e

	return nil
}

func copyEvent(e domain.Event) domain.Event {
	e.RegisteredStudentIDs = append([]string(nil), e.RegisteredStudentIDs...)
	e.Attendance = append([]domain.Attendance(nil), e.Attendance...)
	e.AdditionalImages = append([]domain.EventImage(nil), e.AdditionalImages...)
	return e
}

type fakeFeedbackRepo struct {
	mu       sync.Mutex
	feedback []domain.Feedback
}

func (r *fakeFeedbackRepo) Create(_ context.Context, fb domain.Feedback) (domain.Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range r.feedback {
		if f.EventID == fb.EventID && f.StudentID == fb.StudentID {
			return domain.Feedback{}, repository.ErrFeedbackExists
		}
	}
	fb.ID = uuid.NewString()
	r.feedback = append(r.feedback, fb)

	return fb, nil
}

func (r *fakeFeedbackRepo) FindByEvent(_ context.Context, eventID string) ([]domain.Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var list []domain.Feedback
	for _, f := range r.feedback {
		if f.EventID == eventID {
			list = append(list, f)
		}
	}
	return list, nil
}

func (r *fakeFeedbackRepo) FindByStudent(_ context.Context, studentID string) ([]domain.Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var list []domain.Feedback
	for _, f := range r.feedback {
		if f.StudentID == studentID {
			list = append(list, f)
		}
	}
	return list, nil
}

type fakeClubRepo struct {
	clubs map[string]domain.Club
	users *fakeUserRepo
}

func (r *fakeClubRepo) Create(_ context.Context, club domain.Club) (domain.Club, error) {
	if r.clubs == nil {
		r.clubs = map[string]domain.Club{}
	}
	club.ID = uuid.NewString()
	club.CreatedAt = time.Now()
	club.UpdatedAt = club.CreatedAt
	r.clubs[club.ID] = club

	return club, nil
}

func (r *fakeClubRepo) FindAll(_ context.Context) ([]domain.Club, error) {
	list := make([]domain.Club, 0, len(r.clubs))
	for _, c := range r.clubs {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *fakeClubRepo) AssignCoordinator(ctx context.Context, clubID, userID string) (domain.Club, error) {
	club, ok := r.clubs[clubID]
	if !ok {
		return domain.Club{}, repository.ErrClubNotFound
	}
	user, err := r.users.FindByID(ctx, userID)
	if err != nil {
		return domain.Club{}, err
	}
	switch user.Role {
	case domain.RoleStudent:
	case domain.RoleCoordinator:
		return domain.Club{}, repository.ErrAlreadyCoordinator
	default:
		return domain.Club{}, repository.ErrInvalidUserRole
	}

	user.Role = domain.RoleCoordinator
	user.AssignedClubID = clubID
	r.users.users[userID] = user
	club.Coordinators = append(club.Coordinators, user)
	r.clubs[clubID] = club

	return club, nil
}

func (r *fakeClubRepo) RemoveCoordinator(ctx context.Context, clubID, userID string) (domain.Club, error) {
	club, ok := r.clubs[clubID]
	if !ok {
		return domain.Club{}, repository.ErrClubNotFound
	}
	user, err := r.users.FindByID(ctx, userID)
	if err != nil {
		return domain.Club{}, err
	}
	if user.Role != domain.RoleCoordinator || user.AssignedClubID != clubID {
		return domain.Club{}, repository.ErrNotClubCoordinator
	}

	user.Role = domain.RoleStudent
	user.AssignedClubID = ""
	r.users.users[userID] = user
	kept := club.Coordinators[:0]
	for _, c := range club.Coordinators {
		if c.ID != userID {
			kept = append(kept, c)
		}
	}
	club.Coordinators = kept
	r.clubs[clubID] = club

	return club, nil
}

func (r *fakeClubRepo) FindByID(_ context.Context, id string) (domain.Club, error) {
	c, ok := r.clubs[id]
	if !ok {
		return domain.Club{}, repository.ErrClubNotFound
	}
	return c, nil
}

type clock struct {
	t time.Time
}

func (c *clock) Now() time.Time {
	return c.t
}

func (c *clock) Set(t time.Time) {
	c.t = t
}
