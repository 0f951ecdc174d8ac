package domain

import "time"

type Availability struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employeeId"`
	DayOfWeek  int       `json:"dayOfWeek"` // 0 = Sunday
	StartTime  string    `json:"startTime"`
	EndTime    string    `json:"endTime"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
