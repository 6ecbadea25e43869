package repository

const (
	KeyUser   = "user"
	KeyCart   = "cart"
	KeyOrders = "orders"
)
