package access

import (
	"github.com/google/uuid"

	"umuganda_backend/internals/constants"
	helper "umuganda_backend/internals/helpers"
	helperAuth "umuganda_backend/internals/helpers/auth"
)

// ListFilters are the caller-supplied narrowing filters on a list endpoint.
type ListFilters struct {
	DistrictID *uuid.UUID
	ChurchID   *uuid.UUID
}

// ListScope is the resolved constraint set a list query must apply.
type ListScope struct {
	UnionID    *uuid.UUID
	DistrictID *uuid.UUID
	ChurchID   *uuid.UUID
}

// ResolveListScope is the security boundary for every list endpoint, and the
// asymmetry is deliberate: the top role is optionally constrained to its own
// union, while the subordinate roles are FORCIBLY pinned to their district or
// church. A subordinate asking for a foreign subtree gets Forbidden, never a
// silently narrowed result.
func ResolveListScope(actor helperAuth.Actor, filters ListFilters) (ListScope, error) {
	switch actor.Role {
	case constants.RoleUnionAdmin:
		return ListScope{
			UnionID:    actor.UnionID,
			DistrictID: filters.DistrictID,
			ChurchID:   filters.ChurchID,
		}, nil

	case constants.RoleDistrictAdmin:
		if actor.DistrictID == nil {
			return ListScope{}, helper.ErrForbidden("No district assigned to this account")
		}
		if filters.DistrictID != nil && *filters.DistrictID != *actor.DistrictID {
			return ListScope{}, helper.ErrForbidden("Cannot view records outside your district")
		}
		return ListScope{
			DistrictID: actor.DistrictID,
			ChurchID:   filters.ChurchID,
		}, nil

	case constants.RoleChurchAdmin:
		if actor.ChurchID == nil {
			return ListScope{}, helper.ErrForbidden("No church assigned to this account")
		}
		if filters.ChurchID != nil && *filters.ChurchID != *actor.ChurchID {
			return ListScope{}, helper.ErrForbidden("Cannot view records outside your church")
		}
		return ListScope{
			ChurchID: actor.ChurchID,
		}, nil

	default:
		return ListScope{}, helper.ErrForbidden("Not allowed to view these records")
	}
}
