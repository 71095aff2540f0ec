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

type clubDoc struct {
	ID             string    `bson:"_id"`
	Name           string    `bson:"name"`
	Description    string    `bson:"description"`
	Image          string    `bson:"image,omitempty"`
	CreatedByID    string    `bson:"created_by_id"`
	CoordinatorIDs []string  `bson:"coordinator_ids"`
	CreatedAt      time.Time `bson:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at"`
}

type ClubDAO struct {
	db    *mongo.Database
	clubs *mongo.Collection
	users *UserDAO
}

func NewClubDAO(db *mongo.Database) *ClubDAO {
	return &ClubDAO{
		db:    db,
		clubs: db.Collection(clubsCollection),
		users: NewUserDAO(db),
	}
}

func (d *ClubDAO) Insert(ctx context.Context, club dao.Club) (dao.Club, error) {
	if club.ID == "" {
		club.ID = uuid.NewString()
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	club.CreatedAt = now
	club.UpdatedAt = now
	club.Coordinators = nil

	doc := clubDoc{
		ID:             club.ID,
		Name:           club.Name,
		Description:    club.Description,
		Image:          club.Image,
		CreatedByID:    club.CreatedByID,
		CoordinatorIDs: []string{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := d.clubs.InsertOne(ctx, doc); err != nil {
		return dao.Club{}, err
	}

	return club, nil
}

// populate resolves the coordinator ids of doc into user records.
func (d *ClubDAO) populate(ctx context.Context, doc clubDoc) (dao.Club, error) {
	coordinators, err := d.users.FindByIDs(ctx, doc.CoordinatorIDs)
	if err != nil {
		return dao.Club{}, err
	}

	return dao.Club{
		ID:           doc.ID,
		Name:         doc.Name,
		Description:  doc.Description,
		Image:        doc.Image,
		CreatedByID:  doc.CreatedByID,
		Coordinators: coordinators,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}, nil
}

func (d *ClubDAO) FindByID(ctx context.Context, id string) (dao.Club, error) {
	var doc clubDoc
	if err := d.clubs.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return dao.Club{}, dao.ErrClubNotFound
		}

		return dao.Club{}, err
	}

	return d.populate(ctx, doc)
}

func (d *ClubDAO) FindAll(ctx context.Context) ([]dao.Club, error) {
	cursor, err := d.clubs.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []clubDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	clubs := make([]dao.Club, 0, len(docs))
	for _, doc := range docs {
		club, err := d.populate(ctx, doc)
		if err != nil {
			return nil, err
		}
		clubs = append(clubs, club)
	}

	return clubs, nil
}

func (d *ClubDAO) AssignCoordinator(ctx context.Context, clubID, userID string) (dao.Club, error) {
	err := withTransaction(ctx, d.db, func(sc mongo.SessionContext) error {
		if err := d.clubs.FindOne(sc, bson.M{"_id": clubID}).Err(); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return dao.ErrClubNotFound
			}
			return err
		}

		user, err := d.users.FindByID(sc, userID)
		if err != nil {
			return err
		}

		switch user.Role {
		case dao.RoleStudent:
		case dao.RoleCoordinator:
			return dao.ErrAlreadyCoordinator
		default:
			return dao.ErrInvalidUserRole
		}

		now := time.Now().UTC()
		if _, err := d.users.coll.UpdateOne(sc,
			bson.M{"_id": userID, "role": dao.RoleStudent},
			bson.M{"$set": bson.M{"role": dao.RoleCoordinator, "assigned_club_id": clubID, "updated_at": now}},
		); err != nil {
			return err
		}

		_, err = d.clubs.UpdateOne(sc,
			bson.M{"_id": clubID},
			bson.M{"$addToSet": bson.M{"coordinator_ids": userID}, "$set": bson.M{"updated_at": now}},
		)
		return err
	})
	if err != nil {
		return dao.Club{}, err
	}

	return d.FindByID(ctx, clubID)
}

func (d *ClubDAO) RemoveCoordinator(ctx context.Context, clubID, userID string) (dao.Club, error) {
	err := withTransaction(ctx, d.db, func(sc mongo.SessionContext) error {
		if err := d.clubs.FindOne(sc, bson.M{"_id": clubID}).Err(); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return dao.ErrClubNotFound
			}
			return err
		}

		user, err := d.users.FindByID(sc, userID)
		if err != nil {
			return err
		}
		if user.Role != dao.RoleCoordinator || optionalString(user.AssignedClubID) != clubID {
			return dao.ErrNotClubCoordinator
		}

		now := time.Now().UTC()
		if _, err := d.users.coll.UpdateOne(sc,
			bson.M{"_id": userID},
			bson.M{"$set": bson.M{"role": dao.RoleStudent, "updated_at": now}, "$unset": bson.M{"assigned_club_id": ""}},
		); err != nil {
			return err
		}

		_, err = d.clubs.UpdateOne(sc,
			bson.M{"_id": clubID},
			bson.M{"$pull": bson.M{"coordinator_ids": userID}, "$set": bson.M{"updated_at": now}},
		)
		return err
	})
	if err != nil {
		return dao.Club{}, err
	}

	return d.FindByID(ctx, clubID)
}
