package policy

import "storefront/internal/domain/model"

// ロールで許可を判定する操作
type Operation string

const (
	OpBrowseProducts  Operation = "products.browse"
	OpManageProducts  Operation = "products.manage"
	OpUseCart         Operation = "cart.use"
	OpCheckout        Operation = "cart.checkout"
	OpListOrders      Operation = "orders.list"
	OpViewAllOrders   Operation = "orders.view_all"
	OpManageOrders    Operation = "orders.manage"
	OpManageCustomers Operation = "customers.manage"
	OpManageFiles     Operation = "files.manage"
)

// 操作ごとに許可するロール。載っていない組み合わせは拒否。
var table = map[Operation]map[model.Role]bool{
	OpBrowseProducts:  {model.RoleUser: true, model.RoleAdmin: true},
	OpManageProducts:  {model.RoleAdmin: true},
	OpUseCart:         {model.RoleUser: true},
	OpCheckout:        {model.RoleUser: true},
	OpListOrders:      {model.RoleUser: true, model.RoleAdmin: true},
	OpViewAllOrders:   {model.RoleAdmin: true},
	OpManageOrders:    {model.RoleAdmin: true},
	OpManageCustomers: {model.RoleAdmin: true},
	OpManageFiles:     {model.RoleUser: true, model.RoleAdmin: true},
}

func Allow(op Operation, role model.Role) bool {
	return table[op][role]
}
