package mongodb

import (
	"errors"

	"github.com/shiftboard/shift-scheduler/backend/internal/domain"
	"github.com/shiftboard/shift-scheduler/backend/internal/repository"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

func (r *Repository) GetTimeOffRequests(employeeIDs []string) ([]*domain.TimeOffRequest, error) {
	if len(employeeIDs) == 0 {
		return []*domain.TimeOffRequest{}, nil
	}

	ctx, cancel := r.queryContext()
	defer cancel()

	sort := bson.D{{Key: "startDate", Value: 1}}
	cursor, err := r.timeOff().Find(ctx, bson.M{"employeeId": bson.M{"$in": employeeIDs}}, options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}

	var docs []timeOffDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	requests := make([]*domain.TimeOffRequest, 0, len(docs))
	for i := range docs {
		requests = append(requests, docs[i].toDomain())
	}
	return requests, nil
}

func (r *Repository) GetTimeOffRequestByID(id string) (*domain.TimeOffRequest, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	ctx, cancel := r.queryContext()
	defer cancel()

	var doc timeOffDocument
	if err := r.timeOff().FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translateError(err)
	}
	return doc.toDomain(), nil
}

func (r *Repository) CreateTimeOffRequest(request *domain.TimeOffRequest) error {
	ctx, cancel := r.queryContext()
	defer cancel()

	request.CreatedAt = now()
	request.UpdatedAt = request.CreatedAt

	doc := &timeOffDocument{
		EmployeeID: request.EmployeeID,
		StartDate:  request.StartDate,
		EndDate:    request.EndDate,
		Reason:     request.Reason,
		Status:     request.Status,
		CreatedAt:  request.CreatedAt,
		UpdatedAt:  request.UpdatedAt,
	}

	result, err := r.timeOff().InsertOne(ctx, doc)
	if err != nil {
		return translateError(err)
	}

	oid, ok := result.InsertedID.(bson.ObjectID)
	if !ok {
		return errors.New("mongodb: unexpected inserted id type")
	}
	request.ID = oid.Hex()
	return nil
}

func (r *Repository) UpdateTimeOffStatus(id string, status domain.TimeOffStatus) (*domain.TimeOffRequest, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	ctx, cancel := r.queryContext()
	defer cancel()

	update := bson.M{"$set": bson.M{"status": status, "updatedAt": now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc timeOffDocument
	if err := r.timeOff().FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		return nil, translateError(err)
	}
	return doc.toDomain(), nil
}

func (r *Repository) DeleteTimeOffRequest(id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrNotFound
	}

	ctx, cancel := r.queryContext()
	defer cancel()

	result, err := r.timeOff().DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
