package mongodb

import (
	"github.com/shiftboard/shift-scheduler/backend/internal/domain"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

func (r *Repository) GetAvailabilities(employeeIDs []string) ([]*domain.Availability, error) {
	if len(employeeIDs) == 0 {
		return []*domain.Availability{}, nil
	}

	ctx, cancel := r.queryContext()
	defer cancel()

	sort := bson.D{{Key: "dayOfWeek", Value: 1}, {Key: "startTime", Value: 1}}
	cursor, err := r.availabilities().Find(ctx, bson.M{"employeeId": bson.M{"$in": employeeIDs}}, options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}

	var docs []availabilityDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	availabilities := make([]*domain.Availability, 0, len(docs))
	for i := range docs {
		availabilities = append(availabilities, docs[i].toDomain())
	}
	return availabilities, nil
}

func (r *Repository) UpsertAvailability(availability *domain.Availability) (bool, error) {
	ctx, cancel := r.queryContext()
	defer cancel()

	filter := bson.M{"employeeId": availability.EmployeeID, "dayOfWeek": availability.DayOfWeek}
	ts := now()
	update := bson.M{
		"$set": bson.M{
			"startTime": availability.StartTime,
			"endTime":   availability.EndTime,
			"updatedAt": ts,
		},
		"$setOnInsert": bson.M{"createdAt": ts},
	}

	var (
		result *mongo.UpdateResult
		err    error
	)
	// two concurrent upserts of a new key race on the unique index, the loser retries as an update
	for attempt := 0; attempt < 2; attempt++ {
		result, err = r.availabilities().UpdateOne(ctx, filter, update, options.UpdateOne().SetUpsert(true))
		if err == nil || !mongo.IsDuplicateKeyError(err) {
			break
		}
	}
	if err != nil {
		return false, translateError(err)
	}

	var doc availabilityDocument
	if err := r.availabilities().FindOne(ctx, filter).Decode(&doc); err != nil {
		return false, translateError(err)
	}
	*availability = *doc.toDomain()

	return result.UpsertedCount > 0, nil
}

func (r *Repository) DeleteAvailability(employeeID string, dayOfWeek int) error {
	ctx, cancel := r.queryContext()
	defer cancel()

	_, err := r.availabilities().DeleteOne(ctx, bson.M{"employeeId": employeeID, "dayOfWeek": dayOfWeek})
	return err
}
