package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

// AuthHandler exposes registration and login.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Register POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	_, err := h.service.Register(c.UserContext(), service.RegisterInput{
		EmployeeID:  req.EmployeeID,
		FullName:    req.FullName,
		Phone:       req.Phone,
		Email:       req.Email,
		Department:  req.Department,
		Designation: req.Designation,
		Password:    req.Password,
		Role:        req.Role,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "User registered successfully."})
}

// Login POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.service.Login(c.UserContext(), req.Identifier, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.LoginResponse{
		Message: "Login successful",
		Token:   result.Token,
		User:    dto.NewUserResponse(result.User),
	})
}
