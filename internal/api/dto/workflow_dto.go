package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// AssignTicketRequest binds an agent to a ticket.
type AssignTicketRequest struct {
	TicketID        int64   `json:"ticketId" validate:"required,gt=0"`
	AgentEmployeeID int64   `json:"agentEmployeeId" validate:"required,gt=0"`
	Remarks         *string `json:"remarks" validate:"omitempty,max=255"`
}

// StartTicketRequest payload.
type StartTicketRequest struct {
	TicketID        int64 `json:"ticketId" validate:"required,gt=0"`
	AgentEmployeeID int64 `json:"agentEmployeeId" validate:"required,gt=0"`
}

// ResolveTicketRequest payload.
type ResolveTicketRequest struct {
	TicketID        int64              `json:"ticketId" validate:"required,gt=0"`
	AgentEmployeeID int64              `json:"agentEmployeeId" validate:"required,gt=0"`
	AgentAction     domain.AgentAction `json:"agentAction" validate:"required,oneof=resolved rejected"`
	ResolvedAt      string             `json:"resolvedAt" validate:"required"`
}

// SupervisorSummary is a routing candidate.
type SupervisorSummary struct {
	EmployeeID int64       `json:"employeeId"`
	FullName   string      `json:"fullName"`
	Department string      `json:"department"`
	Role       domain.Role `json:"role"`
}

// NewSupervisorSummaries maps supervisors, never returning nil.
func NewSupervisorSummaries(users []domain.User) []SupervisorSummary {
	items := make([]SupervisorSummary, 0, len(users))
	for _, u := range users {
		items = append(items, SupervisorSummary{
			EmployeeID: u.EmployeeID,
			FullName:   u.FullName,
			Department: u.Department,
			Role:       u.Role,
		})
	}
	return items
}

// AgentSummary lists an agent with current availability.
type AgentSummary struct {
	EmployeeID   int64               `json:"employeeId"`
	FullName     string              `json:"fullName"`
	Email        string              `json:"email"`
	Department   string              `json:"department"`
	Designation  string              `json:"designation"`
	Availability domain.Availability `json:"availability"`
}

// NewAgentSummaries maps agents, never returning nil.
func NewAgentSummaries(users []domain.User) []AgentSummary {
	items := make([]AgentSummary, 0, len(users))
	for _, u := range users {
		items = append(items, AgentSummary{
			EmployeeID:   u.EmployeeID,
			FullName:     u.FullName,
			Email:        u.Email,
			Department:   u.Department,
			Designation:  u.Designation,
			Availability: u.Availability,
		})
	}
	return items
}

// SupervisorTicketResponse is a ticket joined with its reporter.
type SupervisorTicketResponse struct {
	TicketID        int64               `json:"ticketId"`
	Description     string              `json:"description"`
	Status          domain.TicketStatus `json:"status"`
	Department      string              `json:"department"`
	Remarks         *string             `json:"remarks"`
	AgentID         *int64              `json:"agentId"`
	CreatedAt       time.Time           `json:"createdAt"`
	AgentAction     *domain.AgentAction `json:"agentAction"`
	ResolvedAt      *time.Time          `json:"resolvedAt"`
	Expired         bool                `json:"expired"`
	UserEmployeeID  int64               `json:"userEmployeeId"`
	UserFullName    string              `json:"userFullName"`
	UserEmail       string              `json:"userEmail"`
	UserPhone       string              `json:"userPhone"`
	UserDepartment  string              `json:"userDepartment"`
	UserDesignation string              `json:"userDesignation"`
}

// NewSupervisorTicketResponses maps joined rows, never returning nil.
func NewSupervisorTicketResponses(rows []domain.SupervisorTicket) []SupervisorTicketResponse {
	items := make([]SupervisorTicketResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, SupervisorTicketResponse{
			TicketID:        row.ID,
			Description:     row.Description,
			Status:          row.Status,
			Department:      row.Department,
			Remarks:         row.Remarks,
			AgentID:         row.AgentID,
			CreatedAt:       row.CreatedAt,
			AgentAction:     row.AgentAction,
			ResolvedAt:      row.ResolvedAt,
			Expired:         row.Expired,
			UserEmployeeID:  row.Reporter.EmployeeID,
			UserFullName:    row.Reporter.FullName,
			UserEmail:       row.Reporter.Email,
			UserPhone:       row.Reporter.Phone,
			UserDepartment:  row.Reporter.Department,
			UserDesignation: row.Reporter.Designation,
		})
	}
	return items
}

// DepartmentResponse payload.
type DepartmentResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// NewDepartmentResponses maps departments.
func NewDepartmentResponses(departments []domain.Department) []DepartmentResponse {
	items := make([]DepartmentResponse, 0, len(departments))
	for _, d := range departments {
		items = append(items, DepartmentResponse{ID: d.ID, Name: d.Name})
	}
	return items
}
