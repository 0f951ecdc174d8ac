package mongodb

import (
	"errors"

	"github.com/shiftboard/shift-scheduler/backend/internal/domain"
	"github.com/shiftboard/shift-scheduler/backend/internal/repository"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

func (r *Repository) GetShifts(employeeIDs []string) ([]*domain.Shift, error) {
	if len(employeeIDs) == 0 {
		return []*domain.Shift{}, nil
	}

	ctx, cancel := r.queryContext()
	defer cancel()

	sort := bson.D{{Key: "date", Value: 1}, {Key: "startTime", Value: 1}}
	cursor, err := r.shifts().Find(ctx, bson.M{"employeeId": bson.M{"$in": employeeIDs}}, options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}

	var docs []shiftDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	shifts := make([]*domain.Shift, 0, len(docs))
	for i := range docs {
		shifts = append(shifts, docs[i].toDomain())
	}
	return shifts, nil
}

func (r *Repository) GetShiftByID(id string) (*domain.Shift, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	ctx, cancel := r.queryContext()
	defer cancel()

	var doc shiftDocument
	if err := r.shifts().FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translateError(err)
	}
	return doc.toDomain(), nil
}

func (r *Repository) CreateShift(shift *domain.Shift) error {
	ctx, cancel := r.queryContext()
	defer cancel()

	shift.CreatedAt = now()
	shift.UpdatedAt = shift.CreatedAt

	result, err := r.shifts().InsertOne(ctx, newShiftDocument(shift))
	if err != nil {
		return translateError(err)
	}

	oid, ok := result.InsertedID.(bson.ObjectID)
	if !ok {
		return errors.New("mongodb: unexpected inserted id type")
	}
	shift.ID = oid.Hex()
	return nil
}

func (r *Repository) UpdateShift(shift *domain.Shift) error {
	oid, err := bson.ObjectIDFromHex(shift.ID)
	if err != nil {
		return repository.ErrNotFound
	}

	ctx, cancel := r.queryContext()
	defer cancel()

	shift.UpdatedAt = now()
	update := bson.M{"$set": bson.M{
		"employeeId": shift.EmployeeID,
		"date":       shift.Date,
		"startTime":  shift.StartTime,
		"endTime":    shift.EndTime,
		"location":   shift.Location,
		"status":     shift.Status,
		"updatedAt":  shift.UpdatedAt,
	}}

	result, err := r.shifts().UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return translateError(err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteShift(id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrNotFound
	}

	ctx, cancel := r.queryContext()
	defer cancel()

	result, err := r.shifts().DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
