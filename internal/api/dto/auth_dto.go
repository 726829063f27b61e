package dto

import "github.com/spec-kit/helpdesk-service/internal/domain"

// RegisterRequest payload.
type RegisterRequest struct {
	EmployeeID  int64       `json:"employeeId" validate:"required,gt=0"`
	FullName    string      `json:"fullName" validate:"required,min=3,max=100"`
	Phone       string      `json:"phone" validate:"required,min=10,max=15,phone"`
	Email       string      `json:"email" validate:"required,email"`
	Department  string      `json:"department" validate:"required,min=2,max=50"`
	Designation string      `json:"designation" validate:"required,min=2,max=50"`
	Password    string      `json:"password" validate:"required,min=6,max=255"`
	Role        domain.Role `json:"role" validate:"omitempty,oneof=user admin supervisor agent department_head"`
}

// LoginRequest accepts an email or an employee id as identifier.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required,min=3"`
	Password   string `json:"password" validate:"required,min=6"`
}

// UserResponse is a directory entry without credentials.
type UserResponse struct {
	ID           int64               `json:"id"`
	EmployeeID   int64               `json:"employeeId"`
	FullName     string              `json:"fullName"`
	Phone        string              `json:"phone"`
	Email        string              `json:"email"`
	Department   string              `json:"department"`
	Designation  string              `json:"designation"`
	Role         domain.Role         `json:"role"`
	Availability domain.Availability `json:"availability"`
}

// LoginResponse carries the session token.
type LoginResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:           user.ID,
		EmployeeID:   user.EmployeeID,
		FullName:     user.FullName,
		Phone:        user.Phone,
		Email:        user.Email,
		Department:   user.Department,
		Designation:  user.Designation,
		Role:         user.Role,
		Availability: user.Availability,
	}
}

// NewUserResponses maps a slice of users, never returning nil.
func NewUserResponses(users []domain.User) []UserResponse {
	items := make([]UserResponse, 0, len(users))
	for i := range users {
		items = append(items, NewUserResponse(&users[i]))
	}
	return items
}
