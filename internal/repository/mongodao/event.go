package mongodao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vietanh2810/campus-events-api/internal/repository/dao"
)

// maxAttendanceAttempts bounds the set-then-push loop when another writer
// inserts the same student's record between the two updates.
const maxAttendanceAttempts = 3

type imageDoc struct {
	URL         string `bson:"url"`
	Description string `bson:"description"`
}

type registrationDoc struct {
	StudentID string    `bson:"student_id"`
	CreatedAt time.Time `bson:"created_at"`
}

type attendanceDoc struct {
	StudentID  string    `bson:"student_id"`
	Status     string    `bson:"status"`
	MarkedAt   time.Time `bson:"marked_at"`
	MarkedByID string    `bson:"marked_by_id"`
}

type eventDoc struct {
	ID               string            `bson:"_id"`
	Name             string            `bson:"name"`
	Description      string            `bson:"description"`
	Date             time.Time         `bson:"date"`
	Time             string            `bson:"time"`
	Venue            string            `bson:"venue"`
	Address          string            `bson:"address"`
	ContactEmail     string            `bson:"contact_email"`
	Image            string            `bson:"image"`
	AdditionalImages []imageDoc        `bson:"additional_images"`
	Status           string            `bson:"status"`
	CreatedByID      string            `bson:"created_by_id"`
	ClubID           string            `bson:"club_id,omitempty"`
	Registrations    []registrationDoc `bson:"registrations"`
	Attendance       []attendanceDoc   `bson:"attendance"`
	CreatedAt        time.Time         `bson:"created_at"`
	UpdatedAt        time.Time         `bson:"updated_at"`
}

func toImageDocs(images []dao.EventImage) []imageDoc {
	docs := make([]imageDoc, 0, len(images))
	for _, img := range images {
		docs = append(docs, imageDoc(img))
	}
	return docs
}

func (e eventDoc) toDAO() dao.Event {
	images := make([]dao.EventImage, 0, len(e.AdditionalImages))
	for _, img := range e.AdditionalImages {
		images = append(images, dao.EventImage(img))
	}

	registrations := make([]dao.EventRegistration, 0, len(e.Registrations))
	for _, r := range e.Registrations {
		registrations = append(registrations, dao.EventRegistration{
			EventID:   e.ID,
			StudentID: r.StudentID,
			CreatedAt: r.CreatedAt,
		})
	}

	attendance := make([]dao.EventAttendance, 0, len(e.Attendance))
	for _, a := range e.Attendance {
		attendance = append(attendance, dao.EventAttendance{
			EventID:    e.ID,
			StudentID:  a.StudentID,
			Status:     a.Status,
			MarkedAt:   a.MarkedAt,
			MarkedByID: a.MarkedByID,
		})
	}

	return dao.Event{
		ID:               e.ID,
		Name:             e.Name,
		Description:      e.Description,
		Date:             e.Date,
		Time:             e.Time,
		Venue:            e.Venue,
		Address:          e.Address,
		ContactEmail:     e.ContactEmail,
		Image:            e.Image,
		AdditionalImages: images,
		Status:           e.Status,
		CreatedByID:      e.CreatedByID,
		ClubID:           stringPtr(e.ClubID),
		Registrations:    registrations,
		Attendance:       attendance,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

type EventDAO struct {
	db       *mongo.Database
	events   *mongo.Collection
	feedback *mongo.Collection
}

func NewEventDAO(db *mongo.Database) *EventDAO {
	return &EventDAO{
		db:       db,
		events:   db.Collection(eventsCollection),
		feedback: db.Collection(feedbackCollection),
	}
}

func (d *EventDAO) Insert(ctx context.Context, event dao.Event) (dao.Event, error) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Status == "" {
		event.Status = dao.StatusPending
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	event.CreatedAt = now
	event.UpdatedAt = now
	event.Registrations = nil
	event.Attendance = nil

	doc := eventDoc{
		ID:               event.ID,
		Name:             event.Name,
		Description:      event.Description,
		Date:             event.Date,
		Time:             event.Time,
		Venue:            event.Venue,
		Address:          event.Address,
		ContactEmail:     event.ContactEmail,
		Image:            event.Image,
		AdditionalImages: toImageDocs(event.AdditionalImages),
		Status:           event.Status,
		CreatedByID:      event.CreatedByID,
		ClubID:           optionalString(event.ClubID),
		Registrations:    []registrationDoc{},
		Attendance:       []attendanceDoc{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if _, err := d.events.InsertOne(ctx, doc); err != nil {
		return dao.Event{}, err
	}

	return event, nil
}

func (d *EventDAO) FindByID(ctx context.Context, id string) (dao.Event, error) {
	var doc eventDoc
	if err := d.events.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return dao.Event{}, dao.ErrEventNotFound
		}

		return dao.Event{}, err
	}

	return doc.toDAO(), nil
}

func (d *EventDAO) FindAll(ctx context.Context, filter dao.EventFilter) ([]dao.Event, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.CreatedByID != "" {
		query["created_by_id"] = filter.CreatedByID
	}
	if filter.StudentID != "" {
		query["registrations.student_id"] = filter.StudentID
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}})
	cursor, err := d.events.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []eventDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	events := make([]dao.Event, 0, len(docs))
	for _, doc := range docs {
		events = append(events, doc.toDAO())
	}

	return events, nil
}

func (d *EventDAO) Update(ctx context.Context, event dao.Event) (dao.Event, error) {
	res, err := d.events.UpdateOne(ctx, bson.M{"_id": event.ID}, bson.M{"$set": bson.M{
		"name":              event.Name,
		"description":       event.Description,
		"date":              event.Date,
		"time":              event.Time,
		"venue":             event.Venue,
		"address":           event.Address,
		"contact_email":     event.ContactEmail,
		"image":             event.Image,
		"additional_images": toImageDocs(event.AdditionalImages),
		"status":            event.Status,
		"updated_at":        time.Now().UTC(),
	}})
	if err != nil {
		return dao.Event{}, err
	}
	if res.MatchedCount == 0 {
		return dao.Event{}, dao.ErrEventNotFound
	}

	return d.FindByID(ctx, event.ID)
}

func (d *EventDAO) Delete(ctx context.Context, id string) error {
	return withTransaction(ctx, d.db, func(sc mongo.SessionContext) error {
		if _, err := d.feedback.DeleteMany(sc, bson.M{"event_id": id}); err != nil {
			return err
		}

		res, err := d.events.DeleteOne(sc, bson.M{"_id": id})
		if err != nil {
			return err
		}
		if res.DeletedCount == 0 {
			return dao.ErrEventNotFound
		}

		return nil
	})
}

// AddRegistration pushes the student only while the event is approved and
// does not list them yet.
func (d *EventDAO) AddRegistration(ctx context.Context, eventID, studentID string, at time.Time) error {
	res, err := d.events.UpdateOne(ctx,
		bson.M{
			"_id":                      eventID,
			"status":                   dao.StatusApproved,
			"registrations.student_id": bson.M{"$ne": studentID},
		},
		bson.M{"$push": bson.M{"registrations": registrationDoc{StudentID: studentID, CreatedAt: at}}},
	)
	if err != nil {
		return err
	}
	if res.ModifiedCount == 1 {
		return nil
	}

	event, err := d.FindByID(ctx, eventID)
	if err != nil {
		return err
	}
	if event.Status != dao.StatusApproved {
		return dao.ErrEventNotApproved
	}

	return dao.ErrAlreadyRegistered
}

// UpsertAttendance overwrites the student's record in place when one exists
// and pushes a new one otherwise. Both writes require the registration.
func (d *EventDAO) UpsertAttendance(ctx context.Context, rec dao.EventAttendance) error {
	for attempt := 0; attempt < maxAttendanceAttempts; attempt++ {
		res, err := d.events.UpdateOne(ctx,
			bson.M{
				"_id":                      rec.EventID,
				"registrations.student_id": rec.StudentID,
				"attendance.student_id":    rec.StudentID,
			},
			bson.M{"$set": bson.M{
				"attendance.$[a].status":       rec.Status,
				"attendance.$[a].marked_at":    rec.MarkedAt,
				"attendance.$[a].marked_by_id": rec.MarkedByID,
			}},
			options.Update().SetArrayFilters(options.ArrayFilters{
				Filters: []any{bson.M{"a.student_id": rec.StudentID}},
			}),
		)
		if err != nil {
			return err
		}
		if res.MatchedCount == 1 {
			return nil
		}

		res, err = d.events.UpdateOne(ctx,
			bson.M{
				"_id":                      rec.EventID,
				"registrations.student_id": rec.StudentID,
				"attendance.student_id":    bson.M{"$ne": rec.StudentID},
			},
			bson.M{"$push": bson.M{"attendance": attendanceDoc{
				StudentID:  rec.StudentID,
				Status:     rec.Status,
				MarkedAt:   rec.MarkedAt,
				MarkedByID: rec.MarkedByID,
			}}},
		)
		if err != nil {
			return err
		}
		if res.MatchedCount == 1 {
			return nil
		}

		event, err := d.FindByID(ctx, rec.EventID)
		if err != nil {
			return err
		}
		registered := false
		for _, r := range event.Registrations {
			if r.StudentID == rec.StudentID {
				registered = true
				break
			}
		}
		if !registered {
			return dao.ErrStudentNotRegistered
		}
	}

	return errors.New("attendance upsert kept conflicting with concurrent writers")
}
