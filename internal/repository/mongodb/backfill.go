package mongodb

import (
	"context"
	"time"

	"github.com/shiftboard/shift-scheduler/backend/internal/access"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// BackfillManagerScope persists isManager on every document that predates the stored flag.
// It returns the number of documents updated.
func (r *Repository) BackfillManagerScope() (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	cursor, err := r.employees().Find(ctx, bson.M{"isManager": bson.M{"$exists": false}})
	if err != nil {
		return 0, err
	}

	var raws []bson.Raw
	if err := cursor.All(ctx, &raws); err != nil {
		return 0, err
	}

	updated := 0
	for _, raw := range raws {
		var doc employeeDocument
		if err := bson.Unmarshal(raw, &doc); err != nil {
			return updated, err
		}
		isManager := access.InferLegacyScope(doc.Role, hasNullManager(raw))

		update := bson.M{"$set": bson.M{"isManager": isManager, "updatedAt": now()}}
		result, err := r.employees().UpdateOne(ctx, bson.M{"_id": doc.ID, "isManager": bson.M{"$exists": false}}, update)
		if err != nil {
			return updated, err
		}
		updated += int(result.ModifiedCount)
	}

	return updated, nil
}
