package mongodb

import (
	"time"

	"github.com/shiftboard/shift-scheduler/backend/internal/domain"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// employeeDocument mirrors the stored shape, which older writers filled loosely:
// hourlyRate may be a double, an integer or a decimal, managerId an ObjectID or its hex string,
// and eligible, isManager and version may be missing.
type employeeDocument struct {
	ID           bson.ObjectID `bson:"_id,omitempty"`
	Name         string        `bson:"name"`
	Email        string        `bson:"email"`
	Role         string        `bson:"role"`
	Location     string        `bson:"location"`
	HourlyRate   any           `bson:"hourlyRate"`
	Eligible     *bool         `bson:"eligible,omitempty"`
	Active       bool          `bson:"active"`
	IsManager    *bool         `bson:"isManager,omitempty"`
	ManagerID    any           `bson:"managerId"`
	PasswordHash string        `bson:"passwordHash,omitempty"`
	CreatedAt    time.Time     `bson:"createdAt"`
	UpdatedAt    time.Time     `bson:"updatedAt"`
	Version      int32         `bson:"version"`
}

func (d *employeeDocument) toDomain() *domain.Employee {
	employee := &domain.Employee{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		Role:         d.Role,
		Location:     d.Location,
		HourlyRate:   decodeDecimal(d.HourlyRate),
		Eligible:     true,
		Active:       d.Active,
		ManagerID:    decodeReference(d.ManagerID),
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
		Version:      d.Version,
	}
	if d.Eligible != nil {
		employee.Eligible = *d.Eligible
	}
	if d.IsManager != nil {
		employee.IsManager = *d.IsManager
	}
	return employee
}

// employeeFields is the $set payload shared by inserts and updates.
func employeeFields(e *domain.Employee) bson.D {
	return bson.D{
		{Key: "name", Value: e.Name},
		{Key: "email", Value: e.Email},
		{Key: "role", Value: e.Role},
		{Key: "location", Value: e.Location},
		{Key: "hourlyRate", Value: encodeDecimal(e.HourlyRate)},
		{Key: "eligible", Value: e.Eligible},
		{Key: "active", Value: e.Active},
		{Key: "isManager", Value: e.IsManager},
		{Key: "managerId", Value: encodeReference(e.ManagerID)},
		{Key: "passwordHash", Value: e.PasswordHash},
	}
}

func decodeDecimal(v any) decimal.Decimal {
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n)
	case int32:
		return decimal.NewFromInt32(n)
	case int64:
		return decimal.NewFromInt(n)
	case bson.Decimal128:
		d, err := decimal.NewFromString(n.String())
		if err != nil {
			return decimal.Zero
		}
		return d
	case string:
		d, err := decimal.NewFromString(n)
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}

func encodeDecimal(d decimal.Decimal) bson.Decimal128 {
	v, err := bson.ParseDecimal128(d.String())
	if err != nil {
		// decimal.String never yields a form ParseDecimal128 rejects within the rate range
		v, _ = bson.ParseDecimal128("0")
	}
	return v
}

func decodeReference(v any) *string {
	switch id := v.(type) {
	case bson.ObjectID:
		hex := id.Hex()
		return &hex
	case string:
		if id == "" {
			return nil
		}
		return &id
	default:
		return nil
	}
}

// encodeReference stores valid hex ids as ObjectIDs so they join against _id.
// hasNullManager reports whether managerId is present and stored as null.
func hasNullManager(raw bson.Raw) bool {
	value, err := raw.LookupErr("managerId")
	if err != nil {
		return false
	}
	return value.Type == bson.TypeNull
}

func encodeReference(id *string) any {
	if id == nil || *id == "" {
		return nil
	}
	if oid, err := bson.ObjectIDFromHex(*id); err == nil {
		return oid
	}
	return *id
}

type availabilityDocument struct {
	ID         bson.ObjectID `bson:"_id,omitempty"`
	EmployeeID string        `bson:"employeeId"`
	DayOfWeek  int           `bson:"dayOfWeek"`
	StartTime  string        `bson:"startTime"`
	EndTime    string        `bson:"endTime"`
	CreatedAt  time.Time     `bson:"createdAt"`
	UpdatedAt  time.Time     `bson:"updatedAt"`
}

func (d *availabilityDocument) toDomain() *domain.Availability {
	return &domain.Availability{
		ID:         d.ID.Hex(),
		EmployeeID: d.EmployeeID,
		DayOfWeek:  d.DayOfWeek,
		StartTime:  d.StartTime,
		EndTime:    d.EndTime,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

type shiftDocument struct {
	ID         bson.ObjectID      `bson:"_id,omitempty"`
	EmployeeID string             `bson:"employeeId"`
	Date       string             `bson:"date"`
	StartTime  string             `bson:"startTime"`
	EndTime    string             `bson:"endTime"`
	Location   string             `bson:"location"`
	Status     domain.ShiftStatus `bson:"status"`
	CreatedAt  time.Time          `bson:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt"`
}

func newShiftDocument(s *domain.Shift) *shiftDocument {
	return &shiftDocument{
		EmployeeID: s.EmployeeID,
		Date:       s.Date,
		StartTime:  s.StartTime,
		EndTime:    s.EndTime,
		Location:   s.Location,
		Status:     s.Status,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

func (d *shiftDocument) toDomain() *domain.Shift {
	return &domain.Shift{
		ID:         d.ID.Hex(),
		EmployeeID: d.EmployeeID,
		Date:       d.Date,
		StartTime:  d.StartTime,
		EndTime:    d.EndTime,
		Location:   d.Location,
		Status:     d.Status,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

type timeOffDocument struct {
	ID         bson.ObjectID        `bson:"_id,omitempty"`
	EmployeeID string               `bson:"employeeId"`
	StartDate  string               `bson:"startDate"`
	EndDate    string               `bson:"endDate"`
	Reason     string               `bson:"reason"`
	Status     domain.TimeOffStatus `bson:"status"`
	CreatedAt  time.Time            `bson:"createdAt"`
	UpdatedAt  time.Time            `bson:"updatedAt"`
}

func (d *timeOffDocument) toDomain() *domain.TimeOffRequest {
	return &domain.TimeOffRequest{
		ID:         d.ID.Hex(),
		EmployeeID: d.EmployeeID,
		StartDate:  d.StartDate,
		EndDate:    d.EndDate,
		Reason:     d.Reason,
		Status:     d.Status,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

// now truncates to the millisecond precision BSON datetimes keep.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
