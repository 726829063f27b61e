package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/repository/memstore"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

type testServer struct {
	app     *fiber.App
	metrics *observability.Metrics
	tokens  map[int64]string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := memstore.New("IT", "HR", "Finance", "Operations")
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	tokens := auth.NewTokenManager("test-secret", 60)

	authService := service.NewAuthService(config.AuthConfig{BcryptCost: bcrypt.MinCost}, service.AuthDependencies{
		UserRepo:     store.Users(),
		TokenManager: tokens,
		Logger:       logger,
	})
	lifecycle := service.NewLifecycleService(service.LifecycleDependencies{
		TicketRepo: store.Tickets(),
		UnitOfWork: store.UnitOfWork(),
		Routing:    service.NewRoutingService(store.Users()),
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})
	assignment := service.NewAssignmentService(service.AssignmentDependencies{
		TicketRepo: store.Tickets(),
		UserRepo:   store.Users(),
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{TicketRepo: store.Tickets(), Logger: logger})
	directory := service.NewDirectoryService(service.DirectoryDependencies{
		UserRepo:       store.Users(),
		DepartmentRepo: store.Departments(),
	})

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logger, false)})
	RegisterMiddlewares(app, MiddlewareConfig{Logger: logger, Metrics: metrics, CORSAllowOrigins: "http://localhost:5173"})
	RegisterRoutes(app, RouteConfig{
		Health:  handlers.NewHealthHandler("helpdesk-service", "test", nil),
		Auth:    handlers.NewAuthHandler(authService),
		Tickets: handlers.NewTicketsHandler(ticketService, lifecycle),
		Agent:   handlers.NewAgentHandler(ticketService, lifecycle),
		Supervisor: handlers.NewSupervisorHandler(handlers.SupervisorHandlerDependencies{
			Tickets:    ticketService,
			Assignment: assignment,
			Directory:  directory,
		}),
		AuthMiddleware: auth.NewAuthMiddleware(tokens),
		Metrics:        metrics,
	})

	return &testServer{app: app, metrics: metrics, tokens: map[int64]string{}}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	decoded := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded
}

// enroll registers a user and logs in with its email.
func (s *testServer) enroll(t *testing.T, employeeID int64, role, department string) string {
	t.Helper()

	email := fmt.Sprintf("emp%d@example.com", employeeID)
	status, body := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"employeeId":  employeeID,
		"fullName":    fmt.Sprintf("Employee %d", employeeID),
		"phone":       "+15550001111",
		"email":       email,
		"department":  department,
		"designation": "Staff",
		"password":    "secret123",
		"role":        role,
	})
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "User registered successfully.", body["message"])

	status, body = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"identifier": email,
		"password":   "secret123",
	})
	require.Equal(t, http.StatusOK, status, body)
	token, ok := body["token"].(string)
	require.True(t, ok)
	s.tokens[employeeID] = token
	return token
}

func seedITDepartment(t *testing.T, s *testServer) {
	t.Helper()
	s.enroll(t, 301, "supervisor", "IT")
	s.enroll(t, 101, "agent", "IT")
	s.enroll(t, 201, "user", "IT")
	s.enroll(t, 900, "admin", "IT")
}

func ticketField(body map[string]any, field string) any {
	ticket, _ := body["ticket"].(map[string]any)
	return ticket[field]
}

func agentAvailability(t *testing.T, s *testServer, agentID int64) string {
	t.Helper()
	status, body := s.do(t, http.MethodGet, fmt.Sprintf("/api/supervisor/user/%d", agentID), s.tokens[301], nil)
	require.Equal(t, http.StatusOK, status, body)
	user, _ := body["user"].(map[string]any)
	availability, _ := user["availability"].(string)
	return availability
}

func TestTicketLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)
	seedITDepartment(t, s)

	status, body := s.do(t, http.MethodPost, "/api/tickets", s.tokens[201], map[string]any{
		"department":  "IT",
		"description": "VPN down",
	})
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "Ticket created successfully", body["message"])
	assert.EqualValues(t, 301, ticketField(body, "supervisorId"))
	assert.EqualValues(t, 201, ticketField(body, "userId"))
	assert.Equal(t, "open", ticketField(body, "status"))
	ticketID := int64(ticketField(body, "id").(float64))

	status, body = s.do(t, http.MethodPost, "/api/supervisor/tickets/assign", s.tokens[301], map[string]any{
		"ticketId":        ticketID,
		"agentEmployeeId": 101,
		"remarks":         "check firewall",
	})
	require.Equal(t, http.StatusOK, status, body)
	assert.EqualValues(t, 101, ticketField(body, "agentId"))
	assert.Equal(t, "check firewall", ticketField(body, "remarks"))
	assert.Equal(t, "open", ticketField(body, "status"))

	status, body = s.do(t, http.MethodPost, "/api/agent/start-ticket", s.tokens[101], map[string]any{
		"ticketId":        ticketID,
		"agentEmployeeId": 101,
	})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "Ticket is now in progress and agent is marked busy.", body["message"])
	assert.Equal(t, "in_progress", ticketField(body, "status"))
	assert.Equal(t, "busy", agentAvailability(t, s, 101))

	status, body = s.do(t, http.MethodPost, "/api/agent/resolve-ticket", s.tokens[101], map[string]any{
		"ticketId":        ticketID,
		"agentEmployeeId": 101,
		"agentAction":     "resolved",
		"resolvedAt":      "2026-10-19T10:00:00Z",
	})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "Ticket marked as resolved. Agent is now available.", body["message"])
	assert.Equal(t, "resolved", ticketField(body, "status"))
	assert.Equal(t, "resolved", ticketField(body, "agentAction"))
	assert.Equal(t, "available", agentAvailability(t, s, 101))

	status, body = s.do(t, http.MethodGet, "/api/agent/tickets/101", s.tokens[101], nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["tickets"], 1)

	status, body = s.do(t, http.MethodGet, "/api/supervisor/tickets/301", s.tokens[301], nil)
	require.Equal(t, http.StatusOK, status)
	rows, _ := body["tickets"].([]any)
	require.Len(t, rows, 1)
	row := rows[0].(map[string]any)
	assert.EqualValues(t, ticketID, row["ticketId"])
	assert.EqualValues(t, 201, row["userEmployeeId"])
	assert.Equal(t, "emp201@example.com", row["userEmail"])

	assert.Equal(t, float64(1), testutil.ToFloat64(s.metrics.TransitionCounter("resolved")))
}

func TestRejectedResolutionStillReportsResolved(t *testing.T) {
	s := newTestServer(t)
	seedITDepartment(t, s)

	_, body := s.do(t, http.MethodPost, "/api/tickets", s.tokens[201], map[string]any{"department": "IT", "description": "printer jam"})
	ticketID := int64(ticketField(body, "id").(float64))

	status, body := s.do(t, http.MethodPost, "/api/agent/resolve-ticket", s.tokens[101], map[string]any{
		"ticketId":        ticketID,
		"agentEmployeeId": 101,
		"agentAction":     "rejected",
		"resolvedAt":      "2026-10-19T10:00:00Z",
	})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "Ticket marked as rejected. Agent is now available.", body["message"])
	assert.Equal(t, "resolved", ticketField(body, "status"))
	assert.Equal(t, "rejected", ticketField(body, "agentAction"))
}

func TestCreateTicketWithoutSupervisor(t *testing.T) {
	s := newTestServer(t)
	token := s.enroll(t, 501, "user", "HR")

	status, body := s.do(t, http.MethodPost, "/api/tickets", token, map[string]any{"department": "HR", "description": "payroll"})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "No supervisor found for department", body["message"])
	assert.Equal(t, false, body["success"])
}

func TestValidationFailureBody(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{"employeeId": 1})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Validation failed. Please check the required fields.", body["message"])
	assert.NotEmpty(t, body["errors"])
}

func TestDuplicateRegistrationConflicts(t *testing.T) {
	s := newTestServer(t)
	s.enroll(t, 301, "supervisor", "IT")

	status, body := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"employeeId":  302,
		"fullName":    "Someone Else",
		"phone":       "+15550002222",
		"email":       "emp301@example.com",
		"department":  "IT",
		"designation": "Staff",
		"password":    "secret123",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Email already registered.", body["message"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	status, _ := s.do(t, http.MethodGet, "/api/tickets", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = s.do(t, http.MethodGet, "/api/tickets", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestCapabilityChecks(t *testing.T) {
	s := newTestServer(t)
	seedITDepartment(t, s)

	_, body := s.do(t, http.MethodPost, "/api/tickets", s.tokens[201], map[string]any{"department": "IT", "description": "VPN down"})
	ticketID := int64(ticketField(body, "id").(float64))

	status, _ := s.do(t, http.MethodPost, "/api/supervisor/tickets/assign", s.tokens[201], map[string]any{
		"ticketId":        ticketID,
		"agentEmployeeId": 101,
	})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = s.do(t, http.MethodPost, "/api/agent/start-ticket", s.tokens[301], map[string]any{
		"ticketId":        ticketID,
		"agentEmployeeId": 101,
	})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = s.do(t, http.MethodDelete, fmt.Sprintf("/api/tickets/%d", ticketID), s.tokens[301], nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, body = s.do(t, http.MethodDelete, fmt.Sprintf("/api/tickets/%d", ticketID), s.tokens[900], nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Ticket deleted successfully", body["message"])

	status, body = s.do(t, http.MethodGet, fmt.Sprintf("/api/tickets/%d", ticketID), s.tokens[900], nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Ticket not found", body["message"])
}

func TestAdminUpdatesTicket(t *testing.T) {
	s := newTestServer(t)
	seedITDepartment(t, s)

	_, body := s.do(t, http.MethodPost, "/api/tickets", s.tokens[201], map[string]any{"department": "IT", "description": "VPN down"})
	ticketID := int64(ticketField(body, "id").(float64))

	status, body := s.do(t, http.MethodPut, fmt.Sprintf("/api/tickets/%d", ticketID), s.tokens[900], map[string]any{
		"status":  "expired",
		"remarks": "stale",
	})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "expired", ticketField(body, "status"))
	assert.Equal(t, "stale", ticketField(body, "remarks"))
}

func TestDirectoryEndpoints(t *testing.T) {
	s := newTestServer(t)
	seedITDepartment(t, s)

	status, body := s.do(t, http.MethodPost, "/api/supervisor/IT", s.tokens[201], nil)
	require.Equal(t, http.StatusOK, status, body)
	users, _ := body["users"].([]any)
	require.Len(t, users, 1)
	assert.EqualValues(t, 301, users[0].(map[string]any)["employeeId"])

	status, body = s.do(t, http.MethodGet, "/api/supervisor/departments", s.tokens[301], nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Departments fetched successfully", body["message"])
	assert.Len(t, body["departments"], 4)

	status, body = s.do(t, http.MethodGet, "/api/supervisor/agents/301", s.tokens[301], nil)
	require.Equal(t, http.StatusOK, status)
	agents, _ := body["agents"].([]any)
	require.Len(t, agents, 1)
	assert.Equal(t, "available", agents[0].(map[string]any)["availability"])

	status, body = s.do(t, http.MethodGet, "/api/supervisor/tickets/abc", s.tokens[301], nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Employee ID must be a valid number", body["message"])
}

func TestUnknownRouteAndHealth(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Route Not Found", body["message"])

	status, body = s.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ready", body["status"])

	status, _ = s.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, status)
}
