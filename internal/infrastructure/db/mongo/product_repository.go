package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/stockmanager/inventory-system/internal/core/domain"
	"github.com/stockmanager/inventory-system/internal/core/ports"
)

const productCollection = "products"

// ProductRepository implements ports.ProductRepository using MongoDB.
//
// All mutating operations encode their business precondition in the query
// filter and mutate in the same command, so the check and the write are one
// atomic document update. There is no read-check-write window.
type ProductRepository struct {
	col *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{col: db.Collection(productCollection)}
}

type mongoProduct struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Description string             `bson:"description"`
	Quantity    int                `bson:"quantity"`
	Deleted     bool               `bson:"deleted"`
	DeletedAt   *time.Time         `bson:"deleted_at,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (mp mongoProduct) toDomain() *domain.Product {
	return &domain.Product{
		ID:          mp.ID.Hex(),
		Description: mp.Description,
		Quantity:    mp.Quantity,
		Deleted:     mp.Deleted,
		DeletedAt:   mp.DeletedAt,
		CreatedAt:   mp.CreatedAt.UTC(),
		UpdatedAt:   mp.UpdatedAt.UTC(),
	}
}

// parseID converts an external id into an ObjectID. Ids that are not valid
// ObjectID hex cannot address any document, so they map to not-found.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrProductNotFound
	}
	return oid, nil
}

func (r *ProductRepository) Insert(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoProduct{
		Description: p.Description,
		Quantity:    p.Quantity,
		Deleted:     p.Deleted,
		DeletedAt:   p.DeletedAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mp mongoProduct
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return mp.toDomain(), nil
}

// List returns products matching filter, newest first. ObjectIDs carry a
// timestamp prefix, so descending _id is descending creation order.
func (r *ProductRepository) List(ctx context.Context, filter ports.ListProductsFilter) ([]*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	switch filter.Status {
	case domain.StatusActive:
		query["deleted"] = false
	case domain.StatusDeleted:
		query["deleted"] = true
	case domain.StatusAll:
		// no deleted filter
	}
	if filter.Search != "" {
		query["description"] = bson.M{"$regex": regexp.QuoteMeta(filter.Search), "$options": "i"}
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer cursor.Close(ctx)

	products := []*domain.Product{}
	for cursor.Next(ctx) {
		var mp mongoProduct
		if err := cursor.Decode(&mp); err != nil {
			return nil, fmt.Errorf("decode product: %w", err)
		}
		products = append(products, mp.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (r *ProductRepository) Update(ctx context.Context, id, description string, quantity int, now time.Time) (*domain.Product, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"description": description,
		"quantity":    quantity,
		"updated_at":  now,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var mp mongoProduct
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	return mp.toDomain(), nil
}

func (r *ProductRepository) SoftDelete(ctx context.Context, id string, now time.Time) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"deleted":    true,
		"deleted_at": now,
		"updated_at": now,
	}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid, "deleted": false}, update)
	if err != nil {
		return fmt.Errorf("soft-delete product: %w", err)
	}
	if res.MatchedCount == 0 {
		// Either absent or already deleted; the latter is an idempotent no-op.
		return r.exists(ctx, oid)
	}
	return nil
}

func (r *ProductRepository) Restore(ctx context.Context, id string, now time.Time) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{
		"$set":   bson.M{"deleted": false, "updated_at": now},
		"$unset": bson.M{"deleted_at": ""},
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid, "deleted": true}, update)
	if err != nil {
		return fmt.Errorf("restore product: %w", err)
	}
	if res.MatchedCount == 0 {
		return r.exists(ctx, oid)
	}
	return nil
}

// AdjustQuantity applies delta in a single conditional update: the filter
// requires the product to be live and, on decrements, to hold enough stock.
// A concurrent move that would overdraw simply fails to match.
func (r *ProductRepository) AdjustQuantity(ctx context.Context, id string, delta int, now time.Time) (*domain.Product, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": oid, "deleted": false}
	if delta < 0 {
		filter["quantity"] = bson.M{"$gte": -delta}
	}
	update := bson.M{
		"$inc": bson.M{"quantity": delta},
		"$set": bson.M{"updated_at": now},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var mp mongoProduct
	err = r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&mp)
	if err == nil {
		return mp.toDomain(), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("adjust quantity: %w", err)
	}

	// No document matched: disambiguate between absent, deleted, and
	// insufficient stock for the caller.
	var current mongoProduct
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&current); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("adjust quantity: %w", err)
	}
	if current.Deleted {
		return nil, domain.ErrProductDeleted
	}
	return nil, domain.ErrInsufficientStock
}

// exists reports nil when the document is present and ErrProductNotFound
// otherwise. Used to classify zero-match conditional updates.
func (r *ProductRepository) exists(ctx context.Context, oid primitive.ObjectID) error {
	err := r.col.FindOne(ctx, bson.M{"_id": oid}, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.ErrProductNotFound
	}
	if err != nil {
		return fmt.Errorf("find product: %w", err)
	}
	return nil
}

// EnsureIndexes creates the indexes the list query relies on.
func (r *ProductRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "deleted", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
