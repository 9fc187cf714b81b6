package model

import "time"

// User represents an application user record as stored in the `users`
// table.  The role decides the staff capability: OPO accounts may
// approve, deny and cancel bookings; MEMBER accounts may only manage
// their own pending requests.  The json tags are omitted because these
// structs are used by the repository layer; handlers define separate
// response types.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – OPO or MEMBER.
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// RoleOPO is the staff role authorized to approve, deny and cancel
// vehicle bookings.  RoleMember is everyone else.
const (
	RoleOPO    = "OPO"
	RoleMember = "MEMBER"
)
