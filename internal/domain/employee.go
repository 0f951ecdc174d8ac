package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Role         string          `json:"role"`
	Location     string          `json:"location"`
	HourlyRate   decimal.Decimal `json:"hourlyRate"`
	Eligible     bool            `json:"eligible"`
	Active       bool            `json:"active"`
	IsManager    bool            `json:"isManager"`
	ManagerID    *string         `json:"managerId"` // nil for top-level managers
	PasswordHash string          `json:"-"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
	Version      int32           `json:"-"`
}

// Scope is the permission tier carried in a session.
type Scope string

const (
	ScopeManager Scope = "manager"
	ScopeSelf    Scope = "self"
)

type Permissions struct {
	Scope              Scope    `json:"scope"`
	ManagedEmployeeIDs []string `json:"managedEmployeeIds"`
}

// Profile is the denormalized user returned alongside a session token.
type Profile struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Role        string      `json:"role"`
	ManagerID   *string     `json:"managerId"`
	IsManager   bool        `json:"isManager"`
	Permissions Permissions `json:"permissions"`
}
