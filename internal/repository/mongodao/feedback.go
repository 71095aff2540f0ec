package mongodao

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vietanh2810/campus-events-api/internal/repository/dao"
)

type feedbackDoc struct {
	ID          string    `bson:"_id"`
	EventID     string    `bson:"event_id"`
	StudentID   string    `bson:"student_id"`
	StudentName string    `bson:"student_name"`
	Rating      int       `bson:"rating"`
	Comment     string    `bson:"comment"`
	CreatedAt   time.Time `bson:"created_at"`
}

func (f feedbackDoc) toDAO() dao.Feedback {
	return dao.Feedback(f)
}

type FeedbackDAO struct {
	coll *mongo.Collection
}

func NewFeedbackDAO(db *mongo.Database) *FeedbackDAO {
	return &FeedbackDAO{
		coll: db.Collection(feedbackCollection),
	}
}

func (d *FeedbackDAO) Insert(ctx context.Context, fb dao.Feedback) (dao.Feedback, error) {
	if fb.ID == "" {
		fb.ID = uuid.NewString()
	}
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}

	if _, err := d.coll.InsertOne(ctx, feedbackDoc(fb)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return dao.Feedback{}, dao.ErrFeedbackExists
		}

		return dao.Feedback{}, err
	}

	return fb, nil
}

func (d *FeedbackDAO) find(ctx context.Context, filter bson.M, order int) ([]dao.Feedback, error) {
	cursor, err := d.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: order}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []feedbackDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	feedback := make([]dao.Feedback, 0, len(docs))
	for _, doc := range docs {
		feedback = append(feedback, doc.toDAO())
	}

	return feedback, nil
}

func (d *FeedbackDAO) FindByEvent(ctx context.Context, eventID string) ([]dao.Feedback, error) {
	return d.find(ctx, bson.M{"event_id": eventID}, 1)
}

func (d *FeedbackDAO) FindByStudent(ctx context.Context, studentID string) ([]dao.Feedback, error) {
	return d.find(ctx, bson.M{"student_id": studentID}, -1)
}
