package user

import "context"

// EmployeeService is the admin-facing directory management surface.
type EmployeeService interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	Get(ctx context.Context, id string) (EmployeeResponse, error)
	List(ctx context.Context, filter ListEmployeesFilter) (ListEmployeesResponse, error)
	Update(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)

	// ResetSecret replaces the employee's password and/or PIN.
	ResetSecret(ctx context.Context, req ResetSecretRequest) error

	// Delete deactivates the employee; hard removes the row and its history.
	Delete(ctx context.Context, id string, hard bool) error
}
