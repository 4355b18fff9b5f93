package enum

// ── Group A: State machines (CHECK constrained in DB) ──

const (
	OrderStatusPending   = "PENDING"
	OrderStatusConfirmed = "CONFIRMED"
	OrderStatusPreparing = "PREPARING"
	OrderStatusReady     = "READY"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCancelled = "CANCELLED"
)

const (
	CashLogOpen           = "OPEN"
	CashLogClose          = "CLOSE"
	CashLogOrder          = "ORDER"
	CashLogOrderConfirmed = "ORDER_CONFIRMED"
	CashLogOrderCancelled = "ORDER_CANCELLED"
	CashLogOrderDelivered = "ORDER_DELIVERED"
	CashLogOrderPrinted   = "ORDER_PRINTED"
)

// ── Group C: Borderline (CHECK constrained in DB) ──

const (
	UserRoleAdmin   = "ADMIN"
	UserRoleManager = "MANAGER"
	UserRoleCashier = "CASHIER"
	UserRoleKitchen = "KITCHEN"
	UserRoleClient  = "CLIENT"
)

const (
	FlavorTypeTradicional = "TRADICIONAL"
	FlavorTypeEspecial    = "ESPECIAL"
	FlavorTypePremium     = "PREMIUM"
)

const (
	DeliveryTypeDelivery = "DELIVERY"
	DeliveryTypePickup   = "PICKUP"
)

// ── Group B: Configurable labels (no DB constraint) ──

const (
	PaymentMethodCash       = "CASH"
	PaymentMethodPix        = "PIX"
	PaymentMethodCreditCard = "CREDIT_CARD"
	PaymentMethodDebitCard  = "DEBIT_CARD"
)

const (
	OrderSourceStore = "STORE"
	OrderSourceIfood = "IFOOD"
)

// StaffRoles are the roles allowed to work orders and the register.
var StaffRoles = []string{UserRoleAdmin, UserRoleManager, UserRoleCashier, UserRoleKitchen}

// IsValidRole reports whether s is one of the known user roles.
func IsValidRole(s string) bool {
	switch s {
	case UserRoleAdmin, UserRoleManager, UserRoleCashier, UserRoleKitchen, UserRoleClient:
		return true
	}
	return false
}

// IsValidFlavorType reports whether s is a known flavor tier.
func IsValidFlavorType(s string) bool {
	switch s {
	case FlavorTypeTradicional, FlavorTypeEspecial, FlavorTypePremium:
		return true
	}
	return false
}

// IsValidPaymentMethod reports whether s is an accepted payment method.
func IsValidPaymentMethod(s string) bool {
	switch s {
	case PaymentMethodCash, PaymentMethodPix, PaymentMethodCreditCard, PaymentMethodDebitCard:
		return true
	}
	return false
}
