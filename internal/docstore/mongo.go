package docstore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoStore backs collections with MongoDB. Unlike the memory and sqlite
// backends it pushes filtering and grouping down to the server: Find uses a
// translated match document and Aggregate runs a real $match -> $group
// pipeline with $sum.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

func OpenMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w: %w", ErrUnavailable, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w: %w", ErrUnavailable, err)
	}
	return &MongoStore{client: client, db: client.Database(database)}, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ping reports whether the server still answers. Used by readiness checks.
func (s *MongoStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

func (s *MongoStore) Collection(name string) *MongoCollection {
	return &MongoCollection{coll: s.db.Collection(name)}
}

type MongoCollection struct {
	coll *mongo.Collection
}

func (c *MongoCollection) InsertOne(ctx context.Context, doc Doc) (string, error) {
	oid := bson.NewObjectID()
	m := toBson(doc)
	m["_id"] = oid
	if _, err := c.coll.InsertOne(ctx, m); err != nil {
		return "", fmt.Errorf("insert document: %w", err)
	}
	return oid.Hex(), nil
}

func (c *MongoCollection) FindOne(ctx context.Context, id string) (Doc, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var m bson.M
	err = c.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find document: %w", err)
	}
	return fromBson(m), nil
}

func (c *MongoCollection) UpdateOne(ctx context.Context, id string, set Doc) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := c.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": toBson(set)})
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *MongoCollection) DeleteOne(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		// Malformed ids cannot match any document; same no-op as unknown ids.
		return nil
	}
	if _, err := c.coll.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

func (c *MongoCollection) Find(ctx context.Context, f Filter, sortBy []SortKey) ([]Doc, error) {
	opts := options.Find()
	if len(sortBy) > 0 {
		sortDoc := bson.D{}
		for _, k := range sortBy {
			dir := 1
			if k.Desc {
				// Mongo sorts absent fields as null, which a descending
				// sort places last; this matches the Go-side contract.
				dir = -1
			}
			sortDoc = append(sortDoc, bson.E{Key: k.Field, Value: dir})
		}
		opts.SetSort(sortDoc)
	}

	cur, err := c.coll.Find(ctx, matchDoc(f), opts)
	if err != nil {
		return nil, fmt.Errorf("find documents: %w", err)
	}
	defer cur.Close(ctx)

	var out []Doc
	for cur.Next(ctx) {
		var m bson.M
		if err := cur.Decode(&m); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		out = append(out, fromBson(m))
	}
	return out, cur.Err()
}

func (c *MongoCollection) Distinct(ctx context.Context, field string) ([]string, error) {
	var values []string
	if err := c.coll.Distinct(ctx, field, bson.M{}).Decode(&values); err != nil {
		return nil, fmt.Errorf("distinct %s: %w", field, err)
	}
	return values, nil
}

func (c *MongoCollection) Aggregate(ctx context.Context, f Filter, groupField string) ([]GroupTotal, error) {
	pipeline := mongo.Pipeline{}
	if !f.IsZero() {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: matchDoc(f)}})
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + groupField},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "total", Value: -1},
			{Key: "_id", Value: 1},
		}}},
	)

	cur, err := c.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", groupField, err)
	}
	defer cur.Close(ctx)

	var out []GroupTotal
	for cur.Next(ctx) {
		var row struct {
			Key   string `bson:"_id"`
			Total int64  `bson:"total"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode group row: %w", err)
		}
		out = append(out, GroupTotal{Key: row.Key, Cents: row.Total})
	}
	return out, cur.Err()
}

// matchDoc translates a Filter into a mongo match document.
func matchDoc(f Filter) bson.M {
	m := bson.M{}
	if f.DateFrom != "" || f.DateTo != "" {
		rng := bson.M{}
		if f.DateFrom != "" {
			rng["$gte"] = f.DateFrom
		}
		if f.DateTo != "" {
			if f.DateToIncl {
				rng["$lte"] = f.DateTo
			} else {
				rng["$lt"] = f.DateTo
			}
		}
		m["date"] = rng
	}
	for field, want := range f.Equals {
		m[field] = want
	}
	return m
}

func toBson(d Doc) bson.M {
	m := bson.M{}
	for k, v := range d {
		if k == "_id" {
			continue
		}
		m[k] = v
	}
	return m
}

func fromBson(m bson.M) Doc {
	d := Doc{}
	for k, v := range m {
		if k == "_id" {
			if oid, ok := v.(bson.ObjectID); ok {
				d["_id"] = oid.Hex()
			}
			continue
		}
		d[k] = v
	}
	return d
}
