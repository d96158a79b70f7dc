package access

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"umuganda_backend/internals/constants"
	churchModel "umuganda_backend/internals/features/organizations/churches/model"
	districtModel "umuganda_backend/internals/features/organizations/districts/model"
	helper "umuganda_backend/internals/helpers"
	helperAuth "umuganda_backend/internals/helpers/auth"
)

func uuidPtr(u uuid.UUID) *uuid.UUID { return &u }

func TestResolveListScopeDistrictAdminForeignFilterForbidden(t *testing.T) {
	d1 := uuid.New()
	d2 := uuid.New()
	actor := helperAuth.Actor{ID: uuid.New(), Role: constants.RoleDistrictAdmin, DistrictID: uuidPtr(d1)}

	_, err := ResolveListScope(actor, ListFilters{DistrictID: uuidPtr(d2)})
	require.Error(t, err)
	ae, ok := helper.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 403, ae.Status)
}

func TestResolveListScopeDistrictAdminForcedToOwnDistrict(t *testing.T) {
	d1 := uuid.New()
	actor := helperAuth.Actor{ID: uuid.New(), Role: constants.RoleDistrictAdmin, DistrictID: uuidPtr(d1)}

	// no filter: pinned to own district anyway
	scope, err := ResolveListScope(actor, ListFilters{})
	require.NoError(t, err)
	require.NotNil(t, scope.DistrictID)
	assert.Equal(t, d1, *scope.DistrictID)

	// own-district filter: allowed, still pinned
	scope, err = ResolveListScope(actor, ListFilters{DistrictID: uuidPtr(d1)})
	require.NoError(t, err)
	assert.Equal(t, d1, *scope.DistrictID)
}

func TestResolveListScopeChurchAdmin(t *testing.T) {
	c1 := uuid.New()
	c2 := uuid.New()
	actor := helperAuth.Actor{ID: uuid.New(), Role: constants.RoleChurchAdmin, ChurchID: uuidPtr(c1)}

	scope, err := ResolveListScope(actor, ListFilters{})
	require.NoError(t, err)
	require.NotNil(t, scope.ChurchID)
	assert.Equal(t, c1, *scope.ChurchID)

	_, err = ResolveListScope(actor, ListFilters{ChurchID: uuidPtr(c2)})
	require.Error(t, err)
	ae, _ := helper.AsAppError(err)
	assert.Equal(t, 403, ae.Status)
}

func TestResolveListScopeUnionAdminOptionalConstraint(t *testing.T) {
	u1 := uuid.New()
	d2 := uuid.New()

	// super admin (nil union): unconstrained, filter passes through
	super := helperAuth.Actor{ID: uuid.New(), Role: constants.RoleUnionAdmin}
	scope, err := ResolveListScope(super, ListFilters{DistrictID: uuidPtr(d2)})
	require.NoError(t, err)
	assert.Nil(t, scope.UnionID)
	assert.Equal(t, d2, *scope.DistrictID)

	// scoped union admin: union constraint added, filters still pass through
	scoped := helperAuth.Actor{ID: uuid.New(), Role: constants.RoleUnionAdmin, UnionID: uuidPtr(u1)}
	scope, err = ResolveListScope(scoped, ListFilters{})
	require.NoError(t, err)
	require.NotNil(t, scope.UnionID)
	assert.Equal(t, u1, *scope.UnionID)
}

func TestResolveListScopeNonAdminRolesForbidden(t *testing.T) {
	for _, role := range []string{constants.RoleMember, constants.RolePoliceVerifier} {
		actor := helperAuth.Actor{ID: uuid.New(), Role: role}
		_, err := ResolveListScope(actor, ListFilters{})
		require.Error(t, err, role)
		ae, ok := helper.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, 403, ae.Status)
	}
}

func TestDistrictAllowed(t *testing.T) {
	unionID := uuid.New()
	otherUnion := uuid.New()
	district := &districtModel.DistrictModel{DistrictID: uuid.New(), DistrictUnionID: unionID}

	super := helperAuth.Actor{Role: constants.RoleUnionAdmin}
	assert.True(t, DistrictAllowed(super, district))

	sameUnion := helperAuth.Actor{Role: constants.RoleUnionAdmin, UnionID: uuidPtr(unionID)}
	assert.True(t, DistrictAllowed(sameUnion, district))

	foreignUnion := helperAuth.Actor{Role: constants.RoleUnionAdmin, UnionID: uuidPtr(otherUnion)}
	assert.False(t, DistrictAllowed(foreignUnion, district))

	owner := helperAuth.Actor{Role: constants.RoleDistrictAdmin, DistrictID: uuidPtr(district.DistrictID)}
	assert.True(t, DistrictAllowed(owner, district))

	stranger := helperAuth.Actor{Role: constants.RoleDistrictAdmin, DistrictID: uuidPtr(uuid.New())}
	assert.False(t, DistrictAllowed(stranger, district))

	churchAdmin := helperAuth.Actor{Role: constants.RoleChurchAdmin, ChurchID: uuidPtr(uuid.New())}
	assert.False(t, DistrictAllowed(churchAdmin, district))
}

func TestChurchAllowed(t *testing.T) {
	unionID := uuid.New()
	districtID := uuid.New()
	church := &churchModel.ChurchModel{ChurchID: uuid.New(), ChurchDistrictID: districtID}

	assert.True(t, ChurchAllowed(helperAuth.Actor{Role: constants.RoleUnionAdmin}, church, unionID))
	assert.True(t, ChurchAllowed(helperAuth.Actor{Role: constants.RoleUnionAdmin, UnionID: uuidPtr(unionID)}, church, unionID))
	assert.False(t, ChurchAllowed(helperAuth.Actor{Role: constants.RoleUnionAdmin, UnionID: uuidPtr(uuid.New())}, church, unionID))

	assert.True(t, ChurchAllowed(helperAuth.Actor{Role: constants.RoleDistrictAdmin, DistrictID: uuidPtr(districtID)}, church, unionID))
	assert.False(t, ChurchAllowed(helperAuth.Actor{Role: constants.RoleDistrictAdmin, DistrictID: uuidPtr(uuid.New())}, church, unionID))

	assert.True(t, ChurchAllowed(helperAuth.Actor{Role: constants.RoleChurchAdmin, ChurchID: uuidPtr(church.ChurchID)}, church, unionID))
	assert.False(t, ChurchAllowed(helperAuth.Actor{Role: constants.RoleChurchAdmin, ChurchID: uuidPtr(uuid.New())}, church, unionID))

	assert.False(t, ChurchAllowed(helperAuth.Actor{Role: constants.RoleMember}, church, unionID))
}
