// Package mongo provides the MongoDB implementation of the Aegis
// document store, backed by Grove ORM.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongod "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	"github.com/fincase/aegis/alerttype"
	"github.com/fincase/aegis/docstore"
	"github.com/fincase/aegis/id"
	"github.com/fincase/aegis/userperm"
)

// Collection name constants.
const (
	colUserPermissions = "aegis_user_permissions"
	colAlertTypes      = "aegis_alert_types"
)

// Compile-time interface check.
var _ docstore.Store = (*Store)(nil)

// Store is a MongoDB implementation of the Aegis document store.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB document store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// Migrate creates indexes for the aegis collections.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := migrationIndexes()
	for col, models := range indexes {
		if len(models) == 0 {
			continue
		}
		_, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("aegis/mongo: migrate %s indexes: %w", col, err)
		}
	}
	return nil
}

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// now returns the current UTC time.
func now() time.Time {
	return time.Now().UTC()
}

// isNoDocuments checks if an error wraps mongo.ErrNoDocuments.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongod.ErrNoDocuments)
}

// migrationIndexes returns the index definitions for all aegis collections.
func migrationIndexes() map[string][]mongod.IndexModel {
	return map[string][]mongod.IndexModel{
		colUserPermissions: {
			// Downstream consumers query by org membership.
			{Keys: bson.D{{Key: "metadata.uniqueOrgId", Value: 1}}},
			{Keys: bson.D{{Key: "metadata.distinctOrgKeys", Value: 1}}},
		},
		colAlertTypes: {
			{
				Keys:    bson.D{{Key: "key", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "category", Value: 1}}},
			{Keys: bson.D{{Key: "is_enabled", Value: 1}}},
		},
	}
}

// ──────────────────────────────────────────────────
// Permission document operations
// ──────────────────────────────────────────────────

// UpsertDocument replaces the stored document for the user wholesale,
// inserting it if absent. The replace goes through the raw collection so
// the whole write is a single atomic operation.
func (s *Store) UpsertDocument(ctx context.Context, doc *userperm.Document) error {
	m := documentToModel(doc)
	_, err := s.mdb.Collection(colUserPermissions).ReplaceOne(ctx,
		bson.M{"_id": doc.UserID},
		m,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("aegis: upsert permission document: %w", err)
	}
	return nil
}

func (s *Store) GetDocument(ctx context.Context, userID string) (*userperm.Document, error) {
	var m documentModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": userID}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("document for user %s: %w", userID, userperm.ErrNotFound)
		}
		return nil, fmt.Errorf("aegis: get permission document: %w", err)
	}
	return documentFromModel(&m), nil
}

func (s *Store) DeleteDocument(ctx context.Context, userID string) error {
	_, err := s.mdb.NewDelete((*documentModel)(nil)).
		Filter(bson.M{"_id": userID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("aegis: delete permission document: %w", err)
	}
	return nil
}

// ──────────────────────────────────────────────────
// Alert type operations
// ──────────────────────────────────────────────────

func (s *Store) CreateAlertType(ctx context.Context, at *alerttype.AlertType) error {
	t := now()
	at.CreatedAt = t
	at.UpdatedAt = t
	m := alertTypeToModel(at)
	if _, err := s.mdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("aegis: create alert type: %w", err)
	}
	return nil
}

func (s *Store) GetAlertType(ctx context.Context, alertTypeID id.AlertTypeID) (*alerttype.AlertType, error) {
	var m alertTypeModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": alertTypeID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("alert type %s: %w", alertTypeID, alerttype.ErrNotFound)
		}
		return nil, fmt.Errorf("aegis: get alert type: %w", err)
	}
	return alertTypeFromModel(&m), nil
}

func (s *Store) GetAlertTypeByKey(ctx context.Context, key string) (*alerttype.AlertType, error) {
	var m alertTypeModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"key": key}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("alert type key %q: %w", key, alerttype.ErrNotFound)
		}
		return nil, fmt.Errorf("aegis: get alert type by key: %w", err)
	}
	return alertTypeFromModel(&m), nil
}

func (s *Store) UpdateAlertType(ctx context.Context, at *alerttype.AlertType) error {
	at.UpdatedAt = now()
	m := alertTypeToModel(at)
	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("aegis: update alert type: %w", err)
	}
	if res.MatchedCount() == 0 {
		return fmt.Errorf("alert type %s: %w", at.ID, alerttype.ErrNotFound)
	}
	return nil
}

func (s *Store) DeleteAlertType(ctx context.Context, alertTypeID id.AlertTypeID) error {
	_, err := s.mdb.NewDelete((*alertTypeModel)(nil)).
		Filter(bson.M{"_id": alertTypeID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("aegis: delete alert type: %w", err)
	}
	return nil
}

func (s *Store) ListAlertTypes(ctx context.Context, filter *alerttype.ListFilter) ([]*alerttype.AlertType, error) {
	var models []alertTypeModel
	f := bson.M{}
	if filter != nil {
		if filter.Category != "" {
			f["category"] = filter.Category
		}
		if filter.IsEnabled != nil {
			f["is_enabled"] = *filter.IsEnabled
		}
		if filter.Search != "" {
			f["name"] = bson.M{"$regex": filter.Search, "$options": "i"}
		}
	}
	q := s.mdb.NewFind(&models).
		Filter(f).
		Sort(bson.D{{Key: "key", Value: 1}})
	if filter != nil {
		if filter.Limit > 0 {
			q = q.Limit(int64(filter.Limit))
		}
		if filter.Offset > 0 {
			q = q.Skip(int64(filter.Offset))
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("aegis: list alert types: %w", err)
	}
	result := make([]*alerttype.AlertType, len(models))
	for i := range models {
		result[i] = alertTypeFromModel(&models[i])
	}
	return result, nil
}
