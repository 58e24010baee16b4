package entity

// Roles válidos para Account.
const (
	RoleAdmin    = "ADMIN"
	RoleStaff    = "STAFF"
	RoleCustomer = "CUSTOMER"
	RoleShipper  = "SHIPPER"
)

// Capability es un permiso atómico que una ruta puede exigir.
type Capability string

const (
	CapShop              Capability = "shop"               // carrito, wishlist, pedidos propios, RFQ
	CapManageOrders      Capability = "orders:manage"      // listar pedidos y cambiar estado
	CapManageProducts    Capability = "products:manage"    // CRUD de catálogo
	CapManageAccounts    Capability = "accounts:manage"    // CRUD de cuentas del personal
	CapViewCustomers     Capability = "customers:view"     // listado de clientes con agregados
	CapViewDashboard     Capability = "dashboard:view"     // estadísticas
	CapManageRFQ         Capability = "rfq:manage"         // listar y cotizar RFQ
	CapReadAnyOrder      Capability = "orders:read-any"    // leer pedidos ajenos
	CapReadAnyRFQ        Capability = "rfq:read-any"       // leer RFQ ajenos
	CapReceiveOrderFeeds Capability = "orders:live-events" // canal en vivo de pedidos
)

// rolePolicy tabla única rol → capacidades.
var rolePolicy = map[string][]Capability{
	RoleAdmin: {
		CapShop, CapManageOrders, CapManageProducts, CapManageAccounts, CapViewCustomers,
		CapViewDashboard, CapManageRFQ, CapReadAnyOrder, CapReadAnyRFQ, CapReceiveOrderFeeds,
	},
	RoleStaff: {
		CapShop, CapManageOrders, CapManageProducts, CapViewCustomers, CapViewDashboard,
		CapReadAnyOrder, CapReceiveOrderFeeds,
	},
	RoleCustomer: {CapShop},
	RoleShipper:  {CapShop},
}

// IsValidRole indica si el string es uno de los roles conocidos.
func IsValidRole(role string) bool {
	_, ok := rolePolicy[role]
	return ok
}

// HasCapability indica si el rol concede la capacidad.
func HasCapability(role string, cap Capability) bool {
	for _, c := range rolePolicy[role] {
		if c == cap {
			return true
		}
	}
	return false
}
