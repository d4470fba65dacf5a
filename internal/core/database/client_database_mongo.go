package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/markdave123-py/Cluster/internal/models"
)

const (
	usersCollection   = "user_credentials"
	historyCollection = "user_message_history"
)

// MongoClient stores users and histories as documents. Appends rely on
// single-document atomic updates, so no locking is needed.
type MongoClient struct {
	client    *mongo.Client
	users     *mongo.Collection
	histories *mongo.Collection
}

var _ DbClient = (*MongoClient)(nil)

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Username  string             `bson:"username"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	CreatedAt time.Time          `bson:"created_at"`
}

type studentDoc struct {
	Question   string `bson:"question"`
	Response   string `bson:"response"`
	Evaluation string `bson:"evaluation"`
}

type lectureDoc struct {
	ID              primitive.ObjectID `bson:"_id"`
	LectureSummary  string             `bson:"lecture_summary"`
	LectureFileName string             `bson:"lecture_file_name"`
	CreatedAt       time.Time          `bson:"created_at"`
	Students        []studentDoc       `bson:"students"`
}

type historyDoc struct {
	UserID   string       `bson:"user_id"`
	Username string       `bson:"username"`
	Email    string       `bson:"email"`
	Lectures []lectureDoc `bson:"lectures"`
}

func NewMongoClient(ctx context.Context, uri, dbName string) (*MongoClient, error) {
	if uri == "" {
		return nil, errors.New("MONGO_DB_CONNECTION_STRING is empty")
	}
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	database := client.Database(dbName)
	c := &MongoClient{
		client:    client,
		users:     database.Collection(usersCollection),
		histories: database.Collection(historyCollection),
	}
	if err := c.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return c, nil
}

func (c *MongoClient) ensureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	if _, err := c.users.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique}); err != nil {
		return fmt.Errorf("create email index: %w", err)
	}
	if _, err := c.histories.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: unique}); err != nil {
		return fmt.Errorf("create user_id index: %w", err)
	}
	return nil
}

func (c *MongoClient) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return c.client.Disconnect(ctx)
}

func (c *MongoClient) CreateUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return errors.New("nil user")
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	doc := userDoc{
		Username:  user.Username,
		Email:     user.Email,
		Password:  user.PasswordHash,
		CreatedAt: user.CreatedAt,
	}
	res, err := c.users.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailTaken
		}
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid.Hex()
	}
	return nil
}

func (c *MongoClient) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return c.findUser(ctx, bson.M{"email": email})
}

func (c *MongoClient) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	return c.findUser(ctx, bson.M{"_id": oid})
}

func (c *MongoClient) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	var doc userDoc
	err := c.users.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u := doc.toModel()
	return &u, nil
}

func (c *MongoClient) AppendLecture(ctx context.Context, user *models.User, lecture *models.LectureEntry) error {
	if user == nil || lecture == nil {
		return errors.New("nil user or lecture")
	}
	prepareLecture(lecture, func() string { return primitive.NewObjectID().Hex() }, time.Now)
	doc, err := newLectureDoc(lecture)
	if err != nil {
		return err
	}

	filter := bson.M{"user_id": user.ID}
	update := bson.M{
		"$push":        bson.M{"lectures": doc},
		"$setOnInsert": bson.M{"username": user.Username, "email": user.Email},
	}
	opts := options.Update().SetUpsert(true)

	_, err = c.histories.UpdateOne(ctx, filter, update, opts)
	if mongo.IsDuplicateKeyError(err) {
		// Two first lectures raced on the upsert; the history exists now.
		_, err = c.histories.UpdateOne(ctx, filter, update, opts)
	}
	return err
}

func (c *MongoClient) AppendStudentRecord(ctx context.Context, userID, lectureID string, rec models.StudentRecord) error {
	oid, err := primitive.ObjectIDFromHex(lectureID)
	if err != nil {
		return ErrLectureNotFound
	}
	filter := bson.M{"user_id": userID, "lectures._id": oid}
	update := bson.M{"$push": bson.M{"lectures.$.students": studentDoc(rec)}}

	res, err := c.histories.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrLectureNotFound
	}
	return nil
}

func (c *MongoClient) GetUserHistory(ctx context.Context, userID string) (*models.UserHistory, error) {
	var doc historyDoc
	err := c.histories.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	h := doc.toModel()
	return &h, nil
}

func (d userDoc) toModel() models.User {
	return models.User{
		ID:           d.ID.Hex(),
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.Password,
		CreatedAt:    d.CreatedAt,
	}
}

func newLectureDoc(l *models.LectureEntry) (lectureDoc, error) {
	oid, err := primitive.ObjectIDFromHex(l.ID)
	if err != nil {
		return lectureDoc{}, fmt.Errorf("lecture id %q: %w", l.ID, err)
	}
	students := make([]studentDoc, 0, len(l.Students))
	for _, s := range l.Students {
		students = append(students, studentDoc(s))
	}
	return lectureDoc{
		ID:              oid,
		LectureSummary:  l.LectureSummary,
		LectureFileName: l.LectureFileName,
		CreatedAt:       l.CreatedAt,
		Students:        students,
	}, nil
}

func (d historyDoc) toModel() models.UserHistory {
	h := models.UserHistory{
		UserID:   d.UserID,
		Username: d.Username,
		Email:    d.Email,
		Lectures: make([]models.LectureEntry, 0, len(d.Lectures)),
	}
	for _, l := range d.Lectures {
		students := make([]models.StudentRecord, 0, len(l.Students))
		for _, s := range l.Students {
			students = append(students, models.StudentRecord(s))
		}
		h.Lectures = append(h.Lectures, models.LectureEntry{
			ID:              l.ID.Hex(),
			LectureSummary:  l.LectureSummary,
			LectureFileName: l.LectureFileName,
			CreatedAt:       l.CreatedAt,
			Students:        students,
		})
	}
	return h
}
