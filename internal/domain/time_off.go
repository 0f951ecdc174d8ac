package domain

import "time"

type TimeOffStatus string

const (
	TimeOffStatusPending   TimeOffStatus = "pending"
	TimeOffStatusApproved  TimeOffStatus = "approved"
	TimeOffStatusRejected  TimeOffStatus = "rejected"
	TimeOffStatusCancelled TimeOffStatus = "cancelled"
)

type TimeOffRequest struct {
	ID         string        `json:"id"`
	EmployeeID string        `json:"employeeId"`
	StartDate  string        `json:"startDate"`
	EndDate    string        `json:"endDate"`
	Reason     string        `json:"reason"`
	Status     TimeOffStatus `json:"status"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}
