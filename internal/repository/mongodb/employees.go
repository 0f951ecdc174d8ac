package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/shiftboard/shift-scheduler/backend/internal/domain"
	"github.com/shiftboard/shift-scheduler/backend/internal/repository"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

var byName = bson.D{{Key: "name", Value: 1}}

func (r *Repository) CreateEmployee(employee *domain.Employee) error {
	ctx, cancel := r.queryContext()
	defer cancel()

	ts := now()
	doc := append(employeeFields(employee),
		bson.E{Key: "createdAt", Value: ts},
		bson.E{Key: "updatedAt", Value: ts},
		bson.E{Key: "version", Value: int32(1)},
	)

	result, err := r.employees().InsertOne(ctx, doc)
	if err != nil {
		return translateError(err)
	}

	oid, ok := result.InsertedID.(bson.ObjectID)
	if !ok {
		return errors.New("mongodb: unexpected inserted id type")
	}

	employee.ID = oid.Hex()
	employee.CreatedAt = ts
	employee.UpdatedAt = ts
	employee.Version = 1
	return nil
}

func (r *Repository) findEmployee(filter any) (*domain.Employee, error) {
	ctx, cancel := r.queryContext()
	defer cancel()

	var doc employeeDocument
	if err := r.employees().FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translateError(err)
	}
	return doc.toDomain(), nil
}

func (r *Repository) GetEmployeeByID(id string) (*domain.Employee, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	return r.findEmployee(bson.M{"_id": oid})
}

func (r *Repository) GetEmployeeByEmail(email string) (*domain.Employee, error) {
	return r.findEmployee(bson.M{"email": email})
}

func (r *Repository) findEmployees(filter any) ([]*domain.Employee, error) {
	ctx, cancel := r.queryContext()
	defer cancel()

	cursor, err := r.employees().Find(ctx, filter, options.Find().SetSort(byName))
	if err != nil {
		return nil, err
	}

	var docs []employeeDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	employees := make([]*domain.Employee, 0, len(docs))
	for i := range docs {
		employees = append(employees, docs[i].toDomain())
	}
	return employees, nil
}

func (r *Repository) GetEmployeesByIDs(ids []string) ([]*domain.Employee, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return []*domain.Employee{}, nil
	}
	return r.findEmployees(bson.M{"_id": bson.M{"$in": oids}})
}

func (r *Repository) GetAllEmployees() ([]*domain.Employee, error) {
	return r.findEmployees(bson.M{})
}

func (r *Repository) findEmployeeIDs(filter any) ([]string, error) {
	ctx, cancel := r.queryContext()
	defer cancel()

	opts := options.Find().SetSort(byName).SetProjection(bson.M{"_id": 1})
	cursor, err := r.employees().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var docs []struct {
		ID bson.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID.Hex())
	}
	return ids, nil
}

func (r *Repository) GetAllEmployeeIDs() ([]string, error) {
	return r.findEmployeeIDs(bson.M{})
}

func (r *Repository) GetManagedEmployeeIDs(managerID string) ([]string, error) {
	return r.findEmployeeIDs(bson.M{"managerId": bson.M{"$in": idForms(managerID)}})
}

func (r *Repository) UpdateEmployee(employee *domain.Employee) error {
	oid, err := bson.ObjectIDFromHex(employee.ID)
	if err != nil {
		return repository.ErrEditConflict
	}

	ctx, cancel := r.queryContext()
	defer cancel()

	filter := bson.M{"_id": oid, "version": employee.Version}
	if employee.Version == 0 {
		// documents written before versioning carry no version field
		filter = bson.M{"_id": oid, "version": bson.M{"$in": bson.A{0, nil}}}
	}

	update := bson.D{
		{Key: "$set", Value: append(employeeFields(employee), bson.E{Key: "updatedAt", Value: now()})},
		{Key: "$inc", Value: bson.M{"version": 1}},
	}

	var doc employeeDocument
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.employees().FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return repository.ErrEditConflict
		}
		return translateError(err)
	}

	employee.UpdatedAt = doc.UpdatedAt
	employee.Version = doc.Version
	return nil
}

func (r *Repository) DeleteEmployee(id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrNotFound
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	result, err := r.employees().DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}

	owned := bson.M{"employeeId": id}
	for _, coll := range []*mongo.Collection{r.availabilities(), r.shifts(), r.timeOff()} {
		if _, err := coll.DeleteMany(ctx, owned); err != nil {
			return err
		}
	}

	_, err = r.employees().UpdateMany(ctx,
		bson.M{"managerId": bson.M{"$in": idForms(id)}},
		bson.M{"$set": bson.M{"managerId": nil, "updatedAt": now()}},
	)
	return err
}
