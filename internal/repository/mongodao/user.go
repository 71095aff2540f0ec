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

type userDoc struct {
	ID             string    `bson:"_id"`
	Email          string    `bson:"email"`
	Password       string    `bson:"password"`
	Role           string    `bson:"role"`
	Name           string    `bson:"name"`
	Contact        string    `bson:"contact,omitempty"`
	Department     string    `bson:"department,omitempty"`
	Photo          string    `bson:"photo,omitempty"`
	AssignedClubID string    `bson:"assigned_club_id,omitempty"`
	CreatedByID    string    `bson:"created_by_id,omitempty"`
	CreatedAt      time.Time `bson:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at"`
}

func (u userDoc) toDAO() dao.User {
	return dao.User{
		ID:             u.ID,
		Email:          u.Email,
		Password:       u.Password,
		Role:           u.Role,
		Name:           u.Name,
		Contact:        u.Contact,
		Department:     u.Department,
		Photo:          u.Photo,
		AssignedClubID: stringPtr(u.AssignedClubID),
		CreatedByID:    stringPtr(u.CreatedByID),
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

type UserDAO struct {
	coll *mongo.Collection
}

func NewUserDAO(db *mongo.Database) *UserDAO {
	return &UserDAO{
		coll: db.Collection(usersCollection),
	}
}

func (d *UserDAO) Insert(ctx context.Context, user dao.User) (dao.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	user.CreatedAt = now
	user.UpdatedAt = now

	doc := userDoc{
		ID:             user.ID,
		Email:          user.Email,
		Password:       user.Password,
		Role:           user.Role,
		Name:           user.Name,
		Contact:        user.Contact,
		Department:     user.Department,
		Photo:          user.Photo,
		AssignedClubID: optionalString(user.AssignedClubID),
		CreatedByID:    optionalString(user.CreatedByID),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := d.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return dao.User{}, dao.ErrUserEmailExists
		}

		return dao.User{}, err
	}

	return user, nil
}

func (d *UserDAO) findOne(ctx context.Context, filter bson.M) (dao.User, error) {
	var doc userDoc
	if err := d.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return dao.User{}, dao.ErrUserNotFound
		}

		return dao.User{}, err
	}

	return doc.toDAO(), nil
}

func (d *UserDAO) find(ctx context.Context, filter bson.M) ([]dao.User, error) {
	cursor, err := d.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []userDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	users := make([]dao.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, doc.toDAO())
	}

	return users, nil
}

func (d *UserDAO) FindByID(ctx context.Context, id string) (dao.User, error) {
	return d.findOne(ctx, bson.M{"_id": id})
}

func (d *UserDAO) FindByIDs(ctx context.Context, ids []string) ([]dao.User, error) {
	if len(ids) == 0 {
		return []dao.User{}, nil
	}

	return d.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (d *UserDAO) FindByEmail(ctx context.Context, email string) (dao.User, error) {
	return d.findOne(ctx, bson.M{"email": email})
}

func (d *UserDAO) FindByRole(ctx context.Context, role string) ([]dao.User, error) {
	return d.find(ctx, bson.M{"role": role})
}

func (d *UserDAO) UpdateProfile(ctx context.Context, user dao.User) (dao.User, error) {
	res, err := d.coll.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": bson.M{
		"name":       user.Name,
		"contact":    user.Contact,
		"department": user.Department,
		"photo":      user.Photo,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return dao.User{}, err
	}
	if res.MatchedCount == 0 {
		return dao.User{}, dao.ErrUserNotFound
	}

	return d.FindByID(ctx, user.ID)
}

func (d *UserDAO) DeleteWithRole(ctx context.Context, id, role string) error {
	res, err := d.coll.DeleteOne(ctx, bson.M{"_id": id, "role": role})
	if err != nil {
		return err
	}
	if res.DeletedCount == 1 {
		return nil
	}

	if _, err := d.FindByID(ctx, id); err != nil {
		return err
	}

	return dao.ErrInvalidUserRole
}
