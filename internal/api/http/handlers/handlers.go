package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

func currentPrincipal(c *fiber.Ctx) (domain.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal == nil {
		return domain.Principal{}, apperrors.NewUnauthorized("authentication required")
	}
	return *principal, nil
}

func bindAndValidate(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", map[string]any{"reason": err.Error()})
	}
	return dto.Validate(req)
}

// paramID reads a positive integer path parameter.
func paramID(c *fiber.Ctx, name, message string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewInvalidInput(message, map[string]any{name: c.Params(name)})
	}
	return id, nil
}
