package handler

type ContextKey string

var (
	ClaimsCtxKey       ContextKey = "claims"
	EmployeeInfoCtxKey ContextKey = "employeeInfo"
	ShiftCtxKey        ContextKey = "shift"
	TimeOffCtxKey      ContextKey = "timeOff"
)
