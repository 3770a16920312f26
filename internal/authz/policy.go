// Package authz holds the authorization rules as pure decision functions.
// Nothing here touches storage or HTTP; handlers gather the caller identity
// and the resource owner and ask, keeping the decision table in one place.
package authz

import (
	"MiniShop/internal/order"
	"MiniShop/internal/user"
)

// Caller is the identity a validated token asserts.
type Caller struct {
	ID   int
	Role string
}

func (c Caller) IsAdmin() bool { return c.Role == user.RoleAdmin }

// CanReadUser: admins read anyone, others only themselves.
func CanReadUser(c Caller, targetID int) bool {
	return c.IsAdmin() || c.ID == targetID
}

// CanUpdateUser mirrors CanReadUser. Which fields are then honored is a
// separate question, see CanSetRole.
func CanUpdateUser(c Caller, targetID int) bool {
	return c.IsAdmin() || c.ID == targetID
}

// CanSetRole: only admins may change a role. A non-admin submitting a role
// field on their own update is not rejected, the field is silently dropped.
func CanSetRole(c Caller) bool { return c.IsAdmin() }

func CanDeleteUser(c Caller) bool { return c.IsAdmin() }

func CanManageProducts(c Caller) bool { return c.IsAdmin() }

// CanReadOrder: admins see every order, owners see their own.
func CanReadOrder(c Caller, ownerID int) bool {
	return c.IsAdmin() || c.ID == ownerID
}

// CanUpdateOrder gates the operation itself; per-field rules are
// CanOverridePrice and AllowedStatus.
func CanUpdateOrder(c Caller, ownerID int) bool {
	return c.IsAdmin() || c.ID == ownerID
}

// CanOverridePrice: only admins may replace the computed price.
func CanOverridePrice(c Caller) bool { return c.IsAdmin() }

// CanDeleteOrder: owners may cancel but never delete.
func CanDeleteOrder(c Caller) bool { return c.IsAdmin() }

// AllowedStatus decides whether a requested status value may be applied.
// Admins set anything; everyone else is limited to canceling. A disallowed
// value reports false and is ignored by the caller, not rejected.
func AllowedStatus(c Caller, requested string) bool {
	return c.IsAdmin() || requested == order.StatusCanceled
}
