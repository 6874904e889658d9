package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainwallet "bakeshop/internal/domain/wallet"
)

type WalletRepository struct {
	col *mongo.Collection
}

func NewWalletRepository(db *mongo.Database) *WalletRepository {
	return &WalletRepository{col: db.Collection("wallets")}
}

type walletDocument struct {
	CustomerID string          `bson:"_id"`
	Balance    int64           `bson:"balance"`
	Entries    []entryDocument `bson:"entries"`
	CreatedAt  int64           `bson:"created_at"`
	UpdatedAt  int64           `bson:"updated_at"`
}

type entryDocument struct {
	ID        string `bson:"id"`
	Kind      string `bson:"kind"`
	Amount    int64  `bson:"amount"`
	Reference string `bson:"reference,omitempty"`
	At        int64  `bson:"at"`
}

func (r *WalletRepository) ByCustomer(ctx context.Context, customerID string) (*domainwallet.Wallet, error) {
	var doc walletDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": customerID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainwallet.ErrWalletNotFound
		}
		return nil, fmt.Errorf("mongo: load wallet: %w", err)
	}
	return doc.toDomain(), nil
}

// GrantTrial creates the wallet only when none exists: everything lives in
// $setOnInsert, so a second call matches the existing document and writes
// nothing. UpsertedCount tells the caller whether the grant happened.
func (r *WalletRepository) GrantTrial(ctx context.Context, customerID string, credits int64, entry domainwallet.Entry) (bool, error) {
	now := time.Now().UTC().UnixMilli()
	update := bson.M{
		"$setOnInsert": bson.M{
			"balance":    credits,
			"entries":    []entryDocument{newEntryDocument(entry)},
			"created_at": now,
			"updated_at": now,
		},
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": customerID}, update, options.Update().SetUpsert(true))
	if err != nil {
		// a concurrent grant can race the upsert into a duplicate key;
		// the wallet exists either way
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("mongo: grant trial: %w", err)
	}
	return res.UpsertedCount == 1, nil
}

// Apply moves the balance and appends the ledger line in one guarded
// update; for debits the filter requires the balance to cover the amount.
func (r *WalletRepository) Apply(ctx context.Context, customerID string, entry domainwallet.Entry) error {
	filter := bson.M{"_id": customerID}
	if entry.Amount < 0 {
		filter["balance"] = bson.M{"$gte": -entry.Amount}
	}
	update := bson.M{
		"$inc":  bson.M{"balance": entry.Amount},
		"$push": bson.M{"entries": newEntryDocument(entry)},
		"$set":  bson.M{"updated_at": time.Now().UTC().UnixMilli()},
	}
	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("mongo: apply wallet entry: %w", err)
	}
	if res.MatchedCount == 0 {
		exists, err := r.col.CountDocuments(ctx, bson.M{"_id": customerID})
		if err != nil {
			return fmt.Errorf("mongo: apply wallet entry: %w", err)
		}
		if exists == 0 {
			return domainwallet.ErrWalletNotFound
		}
		return domainwallet.ErrInsufficientCredits
	}
	return nil
}

func newEntryDocument(e domainwallet.Entry) entryDocument {
	return entryDocument{
		ID:        e.ID,
		Kind:      string(e.Kind),
		Amount:    e.Amount,
		Reference: e.Reference,
		At:        e.At.UnixMilli(),
	}
}

func (d walletDocument) toDomain() *domainwallet.Wallet {
	entries := make([]domainwallet.Entry, 0, len(d.Entries))
	for _, e := range d.Entries {
		entries = append(entries, domainwallet.Entry{
			ID:        e.ID,
			Kind:      domainwallet.EntryKind(e.Kind),
			Amount:    e.Amount,
			Reference: e.Reference,
			At:        time.UnixMilli(e.At).UTC(),
		})
	}
	return &domainwallet.Wallet{
		CustomerID: d.CustomerID,
		Balance:    d.Balance,
		Entries:    entries,
		CreatedAt:  time.UnixMilli(d.CreatedAt).UTC(),
		UpdatedAt:  time.UnixMilli(d.UpdatedAt).UTC(),
	}
}
