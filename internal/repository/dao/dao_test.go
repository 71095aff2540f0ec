package dao

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Printf("skipping postgres tests: %v", err)
		os.Exit(m.Run())
	}
	if err = pool.Client.Ping(); err != nil {
		log.Printf("skipping postgres tests: docker is unreachable: %v", err)
		os.Exit(m.Run())
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_DB=campus_events",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("could not start postgres: %v", err)
	}
	_ = resource.Expire(180)

	dsn := fmt.Sprintf("postgres://postgres:secret@%s/campus_events?sslmode=disable", resource.GetHostPort("5432/tcp"))
	pool.MaxWait = 90 * time.Second
	err = pool.Retry(func() error {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		if err = sqlDB.Ping(); err != nil {
			return err
		}
		testDB = db
		return nil
	})
	if err != nil {
		_ = pool.Purge(resource)
		log.Fatalf("could not connect to postgres: %v", err)
	}

	code := m.Run()

	if err = pool.Purge(resource); err != nil {
		log.Printf("could not purge postgres: %v", err)
	}

	os.Exit(code)
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	if testDB == nil {
		t.Skip("postgres is not available")
	}

	require.NoError(t, DropAllTables(testDB))
	require.NoError(t, InitTables(testDB))

	return testDB
}

func insertUser(t *testing.T, d *UserDAO, email, role string) User {
	t.Helper()

	u, err := d.Insert(context.Background(), User{
		Email:    email,
		Password: "hash",
		Role:     role,
		Name:     email,
	})
	require.NoError(t, err)
	return u
}

func insertEvent(t *testing.T, d *EventDAO, creatorID, status string) Event {
	t.Helper()

	e, err := d.Insert(context.Background(), Event{
		Name:        "Hack Night",
		Date:        time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Time:        "18:30",
		Venue:       "Main Hall",
		Status:      status,
		CreatedByID: creatorID,
		AdditionalImages: []EventImage{
			{URL: "https://cdn.campus.edu/a.webp", Description: "stage"},
		},
	})
	require.NoError(t, err)
	return e
}

func TestUserDAO(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	users := NewUserDAO(db)

	faculty := insertUser(t, users, "faculty@campus.edu", RoleFaculty)

	_, err := users.Insert(ctx, User{Email: "faculty@campus.edu", Password: "x", Role: RoleStudent, Name: "dup"})
	assert.ErrorIs(t, err, ErrUserEmailExists)

	found, err := users.FindByEmail(ctx, "faculty@campus.edu")
	require.NoError(t, err)
	assert.Equal(t, faculty.ID, found.ID)

	found.Name = "Dr. Faculty"
	found.Department = "CSE"
	updated, err := users.UpdateProfile(ctx, found)
	require.NoError(t, err)
	assert.Equal(t, "Dr. Faculty", updated.Name)
	assert.Equal(t, "CSE", updated.Department)
	assert.Equal(t, RoleFaculty, updated.Role)

	list, err := users.FindByRole(ctx, RoleFaculty)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.ErrorIs(t, users.DeleteWithRole(ctx, faculty.ID, RoleStudent), ErrInvalidUserRole)
	assert.NoError(t, users.DeleteWithRole(ctx, faculty.ID, RoleFaculty))
	assert.ErrorIs(t, users.DeleteWithRole(ctx, faculty.ID, RoleFaculty), ErrUserNotFound)
}

func TestClubDAO_Coordinators(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	users := NewUserDAO(db)
	clubs := NewClubDAO(db)

	faculty := insertUser(t, users, "faculty@campus.edu", RoleFaculty)
	student := insertUser(t, users, "student@campus.edu", RoleStudent)

	club, err := clubs.Insert(ctx, Club{Name: "Robotics", CreatedByID: faculty.ID})
	require.NoError(t, err)

	club, err = clubs.AssignCoordinator(ctx, club.ID, student.ID)
	require.NoError(t, err)
	require.Len(t, club.Coordinators, 1)
	assert.Equal(t, student.ID, club.Coordinators[0].ID)

	promoted, err := users.FindByID(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, RoleCoordinator, promoted.Role)
	require.NotNil(t, promoted.AssignedClubID)
	assert.Equal(t, club.ID, *promoted.AssignedClubID)

	_, err = clubs.AssignCoordinator(ctx, club.ID, student.ID)
	assert.ErrorIs(t, err, ErrAlreadyCoordinator)
	_, err = clubs.AssignCoordinator(ctx, club.ID, faculty.ID)
	assert.ErrorIs(t, err, ErrInvalidUserRole)

	club, err = clubs.RemoveCoordinator(ctx, club.ID, student.ID)
	require.NoError(t, err)
	assert.Empty(t, club.Coordinators)

	demoted, err := users.FindByID(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, RoleStudent, demoted.Role)
	assert.Nil(t, demoted.AssignedClubID)

	_, err = clubs.RemoveCoordinator(ctx, club.ID, student.ID)
	assert.ErrorIs(t, err, ErrNotClubCoordinator)
}

func TestEventDAO_Registration(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	users := NewUserDAO(db)
	events := NewEventDAO(db)

	coord := insertUser(t, users, "coord@campus.edu", RoleCoordinator)
	student := insertUser(t, users, "student@campus.edu", RoleStudent)
	event := insertEvent(t, events, coord.ID, StatusPending)
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	assert.ErrorIs(t, events.AddRegistration(ctx, event.ID, student.ID, at), ErrEventNotApproved)
	assert.ErrorIs(t, events.AddRegistration(ctx, "2b1f5a52-0d7c-4a57-9a5b-6f6e2f4f8e11", student.ID, at), ErrEventNotFound)

	event.Status = StatusApproved
	event, err := events.Update(ctx, event)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, event.Status)
	require.Len(t, event.AdditionalImages, 1)

	require.NoError(t, events.AddRegistration(ctx, event.ID, student.ID, at))
	assert.ErrorIs(t, events.AddRegistration(ctx, event.ID, student.ID, at), ErrAlreadyRegistered)

	mine, err := events.FindAll(ctx, EventFilter{StudentID: student.ID})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, event.ID, mine[0].ID)
	require.Len(t, mine[0].Registrations, 1)
}

func TestEventDAO_ConcurrentRegistration(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	users := NewUserDAO(db)
	events := NewEventDAO(db)

	coord := insertUser(t, users, "coord@campus.edu", RoleCoordinator)
	student := insertUser(t, users, "student@campus.edu", RoleStudent)
	event := insertEvent(t, events, coord.ID, StatusApproved)

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := events.AddRegistration(ctx, event.ID, student.ID, time.Now()); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)

	reloaded, err := events.FindByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Len(t, reloaded.Registrations, 1)
}

func TestEventDAO_Attendance(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	users := NewUserDAO(db)
	events := NewEventDAO(db)

	coord := insertUser(t, users, "coord@campus.edu", RoleCoordinator)
	student := insertUser(t, users, "student@campus.edu", RoleStudent)
	event := insertEvent(t, events, coord.ID, StatusApproved)

	rec := EventAttendance{
		EventID:    event.ID,
		StudentID:  student.ID,
		Status:     "present",
		MarkedAt:   time.Date(2026, 3, 10, 19, 0, 0, 0, time.UTC),
		MarkedByID: coord.ID,
	}
	assert.ErrorIs(t, events.UpsertAttendance(ctx, rec), ErrStudentNotRegistered)

	require.NoError(t, events.AddRegistration(ctx, event.ID, student.ID, time.Now()))
	require.NoError(t, events.UpsertAttendance(ctx, rec))

	rec.Status = "absent"
	rec.MarkedAt = rec.MarkedAt.Add(time.Hour)
	require.NoError(t, events.UpsertAttendance(ctx, rec))

	reloaded, err := events.FindByID(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Attendance, 1)
	assert.Equal(t, "absent", reloaded.Attendance[0].Status)
	assert.True(t, rec.MarkedAt.Equal(reloaded.Attendance[0].MarkedAt))
}

func TestEventDAO_DeleteCascades(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	users := NewUserDAO(db)
	events := NewEventDAO(db)
	feedback := NewFeedbackDAO(db)

	coord := insertUser(t, users, "coord@campus.edu", RoleCoordinator)
	student := insertUser(t, users, "student@campus.edu", RoleStudent)
	event := insertEvent(t, events, coord.ID, StatusApproved)

	require.NoError(t, events.AddRegistration(ctx, event.ID, student.ID, time.Now()))
	require.NoError(t, events.UpsertAttendance(ctx, EventAttendance{
		EventID: event.ID, StudentID: student.ID, Status: "present", MarkedAt: time.Now(), MarkedByID: coord.ID,
	}))
	_, err := feedback.Insert(ctx, Feedback{EventID: event.ID, StudentID: student.ID, StudentName: student.Name, Rating: 5})
	require.NoError(t, err)

	require.NoError(t, events.Delete(ctx, event.ID))
	assert.ErrorIs(t, events.Delete(ctx, event.ID), ErrEventNotFound)

	_, err = events.FindByID(ctx, event.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)

	var regs, marks int64
	require.NoError(t, db.Model(&EventRegistration{}).Where("event_id = ?", event.ID).Count(&regs).Error)
	require.NoError(t, db.Model(&EventAttendance{}).Where("event_id = ?", event.ID).Count(&marks).Error)
	assert.Zero(t, regs)
	assert.Zero(t, marks)

	left, err := feedback.FindByStudent(ctx, student.ID)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestFeedbackDAO(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	users := NewUserDAO(db)
	events := NewEventDAO(db)
	feedback := NewFeedbackDAO(db)

	coord := insertUser(t, users, "coord@campus.edu", RoleCoordinator)
	student := insertUser(t, users, "student@campus.edu", RoleStudent)
	event := insertEvent(t, events, coord.ID, StatusApproved)

	_, err := feedback.Insert(ctx, Feedback{EventID: event.ID, StudentID: student.ID, StudentName: "S", Rating: 4, Comment: "nice"})
	require.NoError(t, err)

	_, err = feedback.Insert(ctx, Feedback{EventID: event.ID, StudentID: student.ID, StudentName: "S", Rating: 2})
	assert.ErrorIs(t, err, ErrFeedbackExists)

	list, err := feedback.FindByEvent(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 4, list[0].Rating)
	assert.Equal(t, "nice", list[0].Comment)
}
