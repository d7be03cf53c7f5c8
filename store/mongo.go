package store

import (
	"context"
	"errors"
	"regexp"
	"time"

	"pathfinder/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const queryTimeout = 10 * time.Second

// MongoStore is the row store used outside demo mode.
type MongoStore struct {
	WebUsers      *mongo.Collection
	Organizations *mongo.Collection
	Subscriptions *mongo.Collection
	Users         *mongo.Collection
	Vehicles      *mongo.Collection
	Announcements *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		WebUsers:      db.Collection("webusers"),
		Organizations: db.Collection("organizations"),
		Subscriptions: db.Collection("subscriptions"),
		Users:         db.Collection("users"),
		Vehicles:      db.Collection("vehicles"),
		Announcements: db.Collection("announcements"),
	}
}

// FindActiveWebUser loads the webusers row for id if it is active.
func (m *MongoStore) FindActiveWebUser(ctx context.Context, id string) (models.WebUser, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var user models.WebUser
	err := m.WebUsers.FindOne(ctx, bson.M{"_id": id, "is_active": true}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.WebUser{}, ErrNotFound
		}
		return models.WebUser{}, err
	}
	return user, nil
}

// SaveOrder upserts every record of the order keyed by natural ids
// (session id, member e-mail, plate number) so retries are harmless.
func (m *MongoStore) SaveOrder(ctx context.Context, order models.CompletedOrder) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	org := order.Organization
	_, err := m.Organizations.UpdateOne(ctx,
		bson.M{"_id": org.ID},
		bson.M{"$set": bson.M{
			"name":                 org.Name,
			"contact_email":        org.ContactEmail,
			"phone":                org.Phone,
			"share_data_analytics": org.ShareDataAnalytics,
			"updated_at":           org.UpdatedAt,
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return err
	}

	sub := order.Subscription
	sub.ID = primitive.NilObjectID
	_, err = m.Subscriptions.ReplaceOne(ctx, bson.M{"session_id": sub.SessionID}, sub, options.Replace().SetUpsert(true))
	if err != nil {
		return err
	}

	for _, u := range order.Users {
		u.ID = primitive.NilObjectID
		filter := bson.M{"organization_id": u.OrganizationID, "email": u.Email}
		if _, err := m.Users.ReplaceOne(ctx, filter, u, options.Replace().SetUpsert(true)); err != nil {
			return err
		}
	}

	for _, v := range order.Vehicles {
		v.ID = primitive.NilObjectID
		filter := bson.M{"organization_id": v.OrganizationID, "plate_number": v.PlateNumber}
		if _, err := m.Vehicles.ReplaceOne(ctx, filter, v, options.Replace().SetUpsert(true)); err != nil {
			return err
		}
	}
	return nil
}

func (m *MongoStore) ListVehicles(ctx context.Context, organizationID string, page Page) ([]models.Vehicle, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{"organization_id": organizationID}
	total, err := m.Vehicles.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip(page.Skip()).
		SetLimit(page.Limit)
	cursor, err := m.Vehicles.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	vehicles := []models.Vehicle{}
	if err := cursor.All(ctx, &vehicles); err != nil {
		return nil, 0, err
	}
	return vehicles, total, nil
}

func (m *MongoStore) ListAnnouncements(ctx context.Context, organizationID, search string, page Page) ([]models.Announcement, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{"organization_id": organizationID}
	if search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"body": pattern},
		}
	}

	total, err := m.Announcements.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(page.Skip()).
		SetLimit(page.Limit)
	cursor, err := m.Announcements.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	announcements := []models.Announcement{}
	if err := cursor.All(ctx, &announcements); err != nil {
		return nil, 0, err
	}
	return announcements, total, nil
}

func (m *MongoStore) InsertAnnouncement(ctx context.Context, a *models.Announcement) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	_, err := m.Announcements.InsertOne(ctx, a)
	return err
}

func (m *MongoStore) FindAnnouncement(ctx context.Context, organizationID string, id primitive.ObjectID) (models.Announcement, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var a models.Announcement
	err := m.Announcements.FindOne(ctx, bson.M{"_id": id, "organization_id": organizationID}).Decode(&a)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Announcement{}, ErrNotFound
		}
		return models.Announcement{}, err
	}
	return a, nil
}

func (m *MongoStore) DeleteAnnouncement(ctx context.Context, organizationID string, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := m.Announcements.DeleteOne(ctx, bson.M{"_id": id, "organization_id": organizationID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
