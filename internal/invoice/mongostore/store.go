// Package mongostore persists invoices in a MongoDB collection, one
// document per record keyed by the client-supplied id. Idempotent inserts
// and patch updates are single document operations so the store's own
// per-document atomicity is the only coordination needed.
package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/MrJamesThe3rd/invoicevault/internal/invoice"
)

type Store struct {
	coll *mongo.Collection
}

func New(coll *mongo.Collection) *Store {
	return &Store{coll: coll}
}

func (s *Store) ListInvoices(ctx context.Context) ([]*invoice.Invoice, error) {
	opts := options.Find().SetSort(bson.D{{Key: "uploadedAt", Value: -1}})

	cursor, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}

	invoices := []*invoice.Invoice{}
	if err := cursor.All(ctx, &invoices); err != nil {
		return nil, fmt.Errorf("decoding invoices: %w", err)
	}

	return invoices, nil
}

func (s *Store) GetInvoice(ctx context.Context, id string) (*invoice.Invoice, error) {
	var inv invoice.Invoice

	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&inv)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, invoice.ErrNotFound
		}

		return nil, fmt.Errorf("getting invoice: %w", err)
	}

	return &inv, nil
}

// InsertInvoice upserts with $setOnInsert, so a second insert with the same
// id leaves the stored document untouched.
func (s *Store) InsertInvoice(ctx context.Context, inv *invoice.Invoice) (bool, error) {
	res, err := s.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: inv.ID}},
		bson.D{{Key: "$setOnInsert", Value: inv}},
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return false, fmt.Errorf("inserting invoice: %w", err)
	}

	return res.UpsertedCount > 0, nil
}

func (s *Store) UpdateInvoice(ctx context.Context, id string, patch invoice.Patch) (*invoice.Invoice, error) {
	set := setDocument(patch)
	if len(set) == 0 {
		return s.GetInvoice(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var merged invoice.Invoice

	err := s.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: set}},
		opts,
	).Decode(&merged)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, invoice.ErrNotFound
		}

		return nil, fmt.Errorf("updating invoice: %w", err)
	}

	return &merged, nil
}

func (s *Store) DeleteInvoice(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}}); err != nil {
		return fmt.Errorf("deleting invoice: %w", err)
	}

	return nil
}

func (s *Store) CountInvoices(ctx context.Context) (int64, error) {
	count, err := s.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("counting invoices: %w", err)
	}

	return count, nil
}

// setDocument flattens the non-nil patch fields into a $set document.
// Array fields are replaced wholesale, never appended.
func setDocument(p invoice.Patch) bson.D {
	var set bson.D

	add := func(key string, value any) {
		set = append(set, bson.E{Key: key, Value: value})
	}

	if p.FileName != nil {
		add("fileName", *p.FileName)
	}

	if p.RawTextPreview != nil {
		add("rawTextPreview", *p.RawTextPreview)
	}

	if p.InvoiceNumber != nil {
		add("invoiceNumber", *p.InvoiceNumber)
	}

	if p.ClientName != nil {
		add("clientName", *p.ClientName)
	}

	if p.Date != nil {
		add("date", *p.Date)
	}

	if p.Year != nil {
		add("year", *p.Year)
	}

	if p.Month != nil {
		add("month", *p.Month)
	}

	if p.MonthName != nil {
		add("monthName", *p.MonthName)
	}

	if p.Quarter != nil {
		add("quarter", *p.Quarter)
	}

	if p.Subtotal != nil {
		add("subtotal", *p.Subtotal)
	}

	if p.Tax != nil {
		add("tax", *p.Tax)
	}

	if p.Total != nil {
		add("total", *p.Total)
	}

	if p.Currency != nil {
		add("currency", *p.Currency)
	}

	if p.PaymentMethod != nil {
		add("paymentMethod", *p.PaymentMethod)
	}

	if p.HSTNumber != nil {
		add("hstNumber", *p.HSTNumber)
	}

	if p.LineItems != nil {
		add("lineItems", *p.LineItems)
	}

	if p.Category != nil {
		add("category", *p.Category)
	}

	return set
}
