package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"duplo-orders/domain/order"
	"duplo-orders/domain/transaction"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const transactionCollection = "transactions"

// TransactionStore MongoDB implementation of the transaction record store.
// Status updates are $set field overwrites keyed by _id, which keeps them
// idempotent under at-least-once job delivery.
type TransactionStore struct {
	coll *mongo.Collection
}

// NewTransactionStore Create transaction store
func NewTransactionStore(db *mongo.Database) *TransactionStore {
	return &TransactionStore{coll: db.Collection(transactionCollection)}
}

// itemDoc item snapshot inside a transaction document. Decimals are stored
// in their string form to avoid float drift.
type itemDoc struct {
	ProductID string `bson:"productId"`
	Name      string `bson:"name"`
	Quantity  string `bson:"quantity"`
	UnitPrice string `bson:"unitPrice"`
}

// transactionDoc persisted shape of a transaction record.
type transactionDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	OrderID         string             `bson:"orderId"`
	BusinessID      string             `bson:"businessId"`
	DepartmentID    string             `bson:"departmentId,omitempty"`
	Amount          string             `bson:"amount"`
	Items           []itemDoc          `bson:"items,omitempty"`
	Status          string             `bson:"status"`
	Timestamp       time.Time          `bson:"timestamp"`
	LastProcessedAt *time.Time         `bson:"lastProcessedAt,omitempty"`
	ErrorMessage    string             `bson:"errorMessage,omitempty"`
	TaxResponse     bson.M             `bson:"taxResponse,omitempty"`
}

// Create inserts a pending record and returns the generated id.
func (s *TransactionStore) Create(ctx context.Context, rec *transaction.Record) (string, error) {
	doc := toDoc(rec)
	result, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to insert transaction: %w", err)
	}
	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}
	return oid.Hex(), nil
}

// FindByID loads one record by its hex id.
func (s *TransactionStore) FindByID(ctx context.Context, id string) (*transaction.Record, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, transaction.ErrTransactionNotFound
	}

	var doc transactionDoc
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, transaction.ErrTransactionNotFound
		}
		return nil, err
	}
	return fromDoc(&doc)
}

// Find returns matching records sorted by timestamp descending, capped at
// transaction.QueryLimit.
func (s *TransactionStore) Find(ctx context.Context, f transaction.Filter) ([]*transaction.Record, error) {
	filter := bson.M{}
	if f.OrderID != "" {
		filter["orderId"] = f.OrderID
	}
	if f.BusinessID != "" {
		filter["businessId"] = f.BusinessID
	}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	if f.StartDate != nil || f.EndDate != nil {
		ts := bson.M{}
		if f.StartDate != nil {
			ts["$gte"] = *f.StartDate
		}
		if f.EndDate != nil {
			ts["$lt"] = *f.EndDate
		}
		filter["timestamp"] = ts
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(transaction.QueryLimit)
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeAll(ctx, cursor)
}

// MarkCompleted overwrites the success fields.
func (s *TransactionStore) MarkCompleted(ctx context.Context, id string, taxResponse map[string]interface{}, at time.Time) error {
	return s.update(ctx, id, bson.M{
		"status":          string(transaction.StatusCompleted),
		"taxResponse":     taxResponse,
		"lastProcessedAt": at,
	})
}

// MarkFailed overwrites the failure fields. taxResponse is left untouched.
func (s *TransactionStore) MarkFailed(ctx context.Context, id string, errorMessage string, at time.Time) error {
	return s.update(ctx, id, bson.M{
		"status":          string(transaction.StatusFailed),
		"errorMessage":    errorMessage,
		"lastProcessedAt": at,
	})
}

// FindStalePending lists pending records created before the cutoff, oldest
// first, for the reconciliation sweep.
func (s *TransactionStore) FindStalePending(ctx context.Context, before time.Time, limit int) ([]*transaction.Record, error) {
	filter := bson.M{
		"status":    string(transaction.StatusPending),
		"timestamp": bson.M{"$lt": before},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: 1}}).
		SetLimit(int64(limit))
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeAll(ctx, cursor)
}

func (s *TransactionStore) update(ctx context.Context, id string, fields bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return transaction.ErrTransactionNotFound
	}
	result, err := s.coll.UpdateByID(ctx, oid, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return transaction.ErrTransactionNotFound
	}
	return nil
}

func decodeAll(ctx context.Context, cursor *mongo.Cursor) ([]*transaction.Record, error) {
	var records []*transaction.Record
	for cursor.Next(ctx) {
		var doc transactionDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		rec, err := fromDoc(&doc)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func toDoc(rec *transaction.Record) *transactionDoc {
	items := make([]itemDoc, len(rec.Items))
	for i, item := range rec.Items {
		items[i] = itemDoc{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity.String(),
			UnitPrice: item.UnitPrice.String(),
		}
	}
	return &transactionDoc{
		OrderID:      rec.OrderID,
		BusinessID:   rec.BusinessID,
		DepartmentID: rec.DepartmentID,
		Amount:       rec.Amount.String(),
		Items:        items,
		Status:       string(rec.Status),
		Timestamp:    rec.Timestamp,
	}
}

func fromDoc(doc *transactionDoc) (*transaction.Record, error) {
	amount, err := decimal.NewFromString(doc.Amount)
	if err != nil {
		return nil, fmt.Errorf("corrupt amount %q on transaction %s: %w", doc.Amount, doc.ID.Hex(), err)
	}
	items := make([]order.Item, len(doc.Items))
	for i, item := range doc.Items {
		quantity, err := decimal.NewFromString(item.Quantity)
		if err != nil {
			return nil, fmt.Errorf("corrupt item quantity on transaction %s: %w", doc.ID.Hex(), err)
		}
		unitPrice, err := decimal.NewFromString(item.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("corrupt item unit price on transaction %s: %w", doc.ID.Hex(), err)
		}
		items[i] = order.Item{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  quantity,
			UnitPrice: unitPrice,
		}
	}
	return &transaction.Record{
		ID:              doc.ID.Hex(),
		OrderID:         doc.OrderID,
		BusinessID:      doc.BusinessID,
		DepartmentID:    doc.DepartmentID,
		Amount:          amount,
		Items:           items,
		Status:          transaction.Status(doc.Status),
		Timestamp:       doc.Timestamp,
		LastProcessedAt: doc.LastProcessedAt,
		ErrorMessage:    doc.ErrorMessage,
		TaxResponse:     doc.TaxResponse,
	}, nil
}

// Compile-time interface implementation check
var _ transaction.Store = (*TransactionStore)(nil)
