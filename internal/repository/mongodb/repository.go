package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/assetvista/internal/domain/models"
	"github.com/mamadbah2/assetvista/internal/repository"
)

const (
	assetsCollection    = "assets"
	snapshotsCollection = "report_snapshots"
)

// MongoDBRepository stores assets and report snapshots in MongoDB.
type MongoDBRepository struct {
	client *mongo.Client
	dbName string
	logger *zap.Logger
}

// NewMongoDBRepository connects to uri and verifies the connection.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string, logger *zap.Logger) (*MongoDBRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client: client,
		dbName: dbName,
		logger: logger,
	}, nil
}

func (r *MongoDBRepository) assets() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(assetsCollection)
}

// InsertAsset inserts row into the assets collection.
func (r *MongoDBRepository) InsertAsset(ctx context.Context, row models.Row) ([]models.Row, error) {
	doc, err := toDocument(row)
	if err != nil {
		return nil, err
	}
	if _, err := r.assets().InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to insert asset: %w", err)
	}
	r.logger.Debug("asset inserted", zap.Any("asset_id", row["asset_id"]))
	return []models.Row{row}, nil
}

// SelectAssets returns every asset in insertion order.
func (r *MongoDBRepository) SelectAssets(ctx context.Context) ([]models.Row, error) {
	cursor, err := r.assets().Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query assets: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode assets: %w", err)
	}

	rows := make([]models.Row, 0, len(docs))
	for _, doc := range docs {
		rows = append(rows, fromDocument(doc))
	}
	return rows, nil
}

// UpdateAsset replaces the document whose asset_id equals id.
func (r *MongoDBRepository) UpdateAsset(ctx context.Context, id string, row models.Row) error {
	doc, err := toDocument(row)
	if err != nil {
		return err
	}
	res, err := r.assets().ReplaceOne(ctx, bson.D{{Key: "asset_id", Value: id}}, doc)
	if err != nil {
		return fmt.Errorf("failed to update asset %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update asset %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

type snapshotDocument struct {
	TakenAt           time.Time            `bson:"taken_at"`
	TotalAssets       int                  `bson:"total_assets"`
	TotalValue        primitive.Decimal128 `bson:"total_value"`
	VerifiedValue     primitive.Decimal128 `bson:"verified_value"`
	MappingPercentage primitive.Decimal128 `bson:"mapping_percentage"`
	Discrepancies     int                  `bson:"discrepancies"`
}

// SaveSnapshot stores a report snapshot.
func (r *MongoDBRepository) SaveSnapshot(ctx context.Context, snapshot models.ReportSnapshot) error {
	doc := snapshotDocument{
		TakenAt:       snapshot.TakenAt,
		TotalAssets:   snapshot.TotalAssets,
		Discrepancies: snapshot.Discrepancies,
	}
	var err error
	if doc.TotalValue, err = toDecimal128(snapshot.TotalValue); err != nil {
		return err
	}
	if doc.VerifiedValue, err = toDecimal128(snapshot.VerifiedValue); err != nil {
		return err
	}
	if doc.MappingPercentage, err = toDecimal128(snapshot.MappingPercentage.Round(4)); err != nil {
		return err
	}

	collection := r.client.Database(r.dbName).Collection(snapshotsCollection)
	if _, err := collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert report snapshot: %w", err)
	}
	return nil
}

// ListSnapshots returns up to limit snapshots, newest first.
func (r *MongoDBRepository) ListSnapshots(ctx context.Context, limit int) ([]models.ReportSnapshot, error) {
	opts := options.Find().SetSort(bson.D{{Key: "taken_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	collection := r.client.Database(r.dbName).Collection(snapshotsCollection)
	cursor, err := collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query report snapshots: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []snapshotDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode report snapshots: %w", err)
	}

	out := make([]models.ReportSnapshot, 0, len(docs))
	for _, d := range docs {
		out = append(out, models.ReportSnapshot{
			TakenAt:           d.TakenAt,
			TotalAssets:       d.TotalAssets,
			TotalValue:        fromDecimal128(d.TotalValue),
			VerifiedValue:     fromDecimal128(d.VerifiedValue),
			MappingPercentage: fromDecimal128(d.MappingPercentage),
			Discrepancies:     d.Discrepancies,
		})
	}
	return out, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

// toDocument lays row out in column order with amounts as Decimal128.
func toDocument(row models.Row) (bson.D, error) {
	doc := make(bson.D, 0, len(models.Columns))
	for _, c := range models.Columns {
		value, ok := row[c.Key]
		if !ok {
			continue
		}
		if c.Kind == models.KindAmount {
			d, err := models.ToDecimal(value)
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", c.Key, err)
			}
			dec, err := toDecimal128(d)
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", c.Key, err)
			}
			value = dec
		}
		doc = append(doc, bson.E{Key: c.Key, Value: value})
	}
	return doc, nil
}

func fromDocument(doc bson.M) models.Row {
	row := make(models.Row, len(models.Columns))
	for _, c := range models.Columns {
		value, ok := doc[c.Key]
		if !ok {
			continue
		}
		if dec, isDec := value.(primitive.Decimal128); isDec {
			value = fromDecimal128(dec)
		}
		row[c.Key] = value
	}
	return row
}

var errDecimalRange = errors.New("amount out of Decimal128 range")

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	dec, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("%w: %s", errDecimalRange, d.String())
	}
	return dec, nil
}

func fromDecimal128(dec primitive.Decimal128) decimal.Decimal {
	d, err := decimal.NewFromString(dec.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}
