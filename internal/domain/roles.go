package domain

import "fmt"

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleVendor   UserRole = "vendor"
	RoleAdmin    UserRole = "admin"
)

// ParseRegistrationRole проверяет роль, указанную при регистрации. Администраторы через регистрацию
// не создаются, пустая роль означает покупателя.
func ParseRegistrationRole(role string) (UserRole, error) {
	switch UserRole(role) {
	case "", RoleCustomer:
		return RoleCustomer, nil
	case RoleVendor:
		return RoleVendor, nil
	default:
		return "", NewKindError(ErrValidation, fmt.Sprintf("invalid role %q: must be one of customer, vendor", role))
	}
}

// Actor пользователь, от имени которого выполняется операция.
type Actor struct {
	UserID int64
	Role   UserRole
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func (a Actor) IsVendor() bool {
	return a.Role == RoleVendor
}

// CanManage сообщает, может ли актор изменять ресурс вендора vendorID. Админ может всё, вендор только своё.
func (a Actor) CanManage(vendorID int64) bool {
	if a.IsAdmin() {
		return true
	}
	return a.IsVendor() && a.UserID == vendorID
}
