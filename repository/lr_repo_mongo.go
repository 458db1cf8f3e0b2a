package repository

import (
	"context"
	"errors"
	"time"

	"transportbilling/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	mongoDatabase     = "transportbilling"
	lrCollectionMongo = "lr_record"
)

type MongoLRRepo struct {
	DB *mongo.Client
}

func NewMongoLRRepo(db *mongo.Client) *MongoLRRepo {
	return &MongoLRRepo{DB: db}
}

func (r *MongoLRRepo) collection() *mongo.Collection {
	return r.DB.Database(mongoDatabase).Collection(lrCollectionMongo)
}

func (r *MongoLRRepo) GetRecord(ctx context.Context, id string) (*models.LRRecord, error) {
	var rec models.LRRecord
	err := r.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (r *MongoLRRepo) ListAll(ctx context.Context) ([]*models.LRRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var list []*models.LRRecord
	if err := cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *MongoLRRepo) UpdateRecord(ctx context.Context, id string, fields map[string]interface{}) (bool, error) {
	cols, err := updateColumns(fields)
	if err != nil {
		return false, err
	}
	set := bson.M{"updated_at": time.Now().UTC()}
	for _, col := range cols {
		set[col] = fields[col]
	}
	res, err := r.collection().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

var _ LRRepository = (*MongoLRRepo)(nil)
