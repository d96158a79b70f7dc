package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"umuganda_backend/internals/constants"
	helper "umuganda_backend/internals/helpers"
)

// Locals keys written by the JWT middleware. Keep these in one place so the
// middleware and the extractors cannot drift apart.
const (
	LocUserID     = "user_id"
	LocUserRole   = "userRole"
	LocUnionID    = "union_id"
	LocDistrictID = "district_id"
	LocChurchID   = "church_id"
)

// Actor is the immutable per-request identity every service receives. Only the
// organizational IDs relevant to the role are set; a UNION_ADMIN with a nil
// UnionID is the super admin that sees every union.
type Actor struct {
	ID         uuid.UUID
	Role       string
	UnionID    *uuid.UUID
	DistrictID *uuid.UUID
	ChurchID   *uuid.UUID
}

func (a Actor) IsSuperAdmin() bool {
	return a.Role == constants.RoleUnionAdmin && a.UnionID == nil
}

// ActorFromContext rebuilds the Actor from the claims the auth middleware
// stored in Locals. A request that skipped the middleware has no actor and is
// rejected before any scope check runs.
func ActorFromContext(c *fiber.Ctx) (Actor, error) {
	idStr, _ := c.Locals(LocUserID).(string)
	role, _ := c.Locals(LocUserRole).(string)

	if strings.TrimSpace(idStr) == "" || strings.TrimSpace(role) == "" {
		return Actor{}, helper.ErrUnauthorized("Missing authenticated user")
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return Actor{}, helper.ErrUnauthorized("Invalid user id in token")
	}
	if !constants.IsKnownRole(role) {
		return Actor{}, helper.ErrUnauthorized("Unknown role in token")
	}

	return Actor{
		ID:         id,
		Role:       role,
		UnionID:    localsUUID(c, LocUnionID),
		DistrictID: localsUUID(c, LocDistrictID),
		ChurchID:   localsUUID(c, LocChurchID),
	}, nil
}

func localsUUID(c *fiber.Ctx, key string) *uuid.UUID {
	s, _ := c.Locals(key).(string)
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return &id
}
