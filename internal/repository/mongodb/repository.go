package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shiftboard/shift-scheduler/backend/internal/config"
	"github.com/shiftboard/shift-scheduler/backend/internal/repository"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	employeesCollection      = "employees"
	availabilitiesCollection = "availabilities"
	shiftsCollection         = "shifts"
	timeOffCollection        = "time_off_requests"
)

type Repository struct {
	cfg    *config.Config
	client *mongo.Client
	db     *mongo.Database
}

var _ repository.Repository = (*Repository)(nil)

func NewRepository(cfg *config.Config, client *mongo.Client) *Repository {
	return &Repository{
		cfg:    cfg,
		client: client,
		db:     client.Database(cfg.Database.Name),
	}
}

func (r *Repository) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	return r.client.Disconnect(ctx)
}

func (r *Repository) employees() *mongo.Collection {
	return r.db.Collection(employeesCollection)
}

func (r *Repository) availabilities() *mongo.Collection {
	return r.db.Collection(availabilitiesCollection)
}

func (r *Repository) shifts() *mongo.Collection {
	return r.db.Collection(shiftsCollection)
}

func (r *Repository) timeOff() *mongo.Collection {
	return r.db.Collection(timeOffCollection)
}

var indexes = map[string][]mongo.IndexModel{
	employeesCollection: {
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_unique"),
		},
		{
			Keys: bson.D{{Key: "managerId", Value: 1}},
		},
	},
	availabilitiesCollection: {
		{
			Keys:    bson.D{{Key: "employeeId", Value: 1}, {Key: "dayOfWeek", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("employee_day_unique"),
		},
	},
	shiftsCollection: {
		{
			Keys: bson.D{{Key: "employeeId", Value: 1}, {Key: "date", Value: 1}},
		},
	},
	timeOffCollection: {
		{
			Keys: bson.D{{Key: "employeeId", Value: 1}, {Key: "startDate", Value: 1}},
		},
	},
}

// EnsureIndexes creates the unique and lookup indexes. Existing indexes are left untouched.
func (r *Repository) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	for name, models := range indexes {
		if _, err := r.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}

	return nil
}

func (r *Repository) queryContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
}

func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repository.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %w", repository.ErrDuplicate, err)
	default:
		return err
	}
}

// objectIDs converts hex ids, dropping the ones that are not valid ObjectIDs.
func objectIDs(ids []string) []bson.ObjectID {
	oids := make([]bson.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := bson.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		oids = append(oids, oid)
	}
	return oids
}

// idForms returns both representations an id reference may be stored under.
func idForms(id string) []any {
	forms := []any{id}
	if oid, err := bson.ObjectIDFromHex(id); err == nil {
		forms = append(forms, oid)
	}
	return forms
}
