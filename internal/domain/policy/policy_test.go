package policy

import (
	"testing"

	"storefront/internal/domain/model"

	"github.com/stretchr/testify/assert"
)

func TestAllow(t *testing.T) {
	cases := []struct {
		op   Operation
		role model.Role
		want bool
	}{
		{OpBrowseProducts, model.RoleUser, true},
		{OpBrowseProducts, model.RoleAdmin, true},
		{OpManageProducts, model.RoleUser, false},
		{OpManageProducts, model.RoleAdmin, true},
		{OpUseCart, model.RoleUser, true},
		{OpUseCart, model.RoleAdmin, false},
		{OpCheckout, model.RoleAdmin, false},
		{OpListOrders, model.RoleUser, true},
		{OpViewAllOrders, model.RoleUser, false},
		{OpViewAllOrders, model.RoleAdmin, true},
		{OpManageOrders, model.RoleUser, false},
		{OpManageCustomers, model.RoleAdmin, true},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, Allow(c.op, c.role), "%s/%s", c.op, c.role)
	}
}

func TestAllow_UnknownRoleOrOperation(t *testing.T) {
	assert.False(t, Allow(OpBrowseProducts, model.Role("user")))
	assert.False(t, Allow(Operation("unknown"), model.RoleAdmin))
}
