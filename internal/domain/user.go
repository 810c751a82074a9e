package domain

import "time"

type UserRole string

const (
	UserRoleStudent UserRole = "STUDENT"
	UserRoleStaff   UserRole = "STAFF"
)

type UserStatus string

const (
	UserStatusActive   UserStatus = "ACTIVE"
	UserStatusInactive UserStatus = "INACTIVE"
)

// User is a borrower registered with the library. IDNumber is the
// university-issued identifier and is unique across users.
type User struct {
	ID         int32      `json:"id"`
	IDNumber   string     `json:"id_number"`
	Name       string     `json:"name"`
	Department string     `json:"department"`
	Role       UserRole   `json:"role"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	Status     UserStatus `json:"status"`
	CreatedOn  time.Time  `json:"created_on"`
	UpdatedOn  time.Time  `json:"updated_on"`
}

// ActorRole is the role of the authenticated caller, supplied by the
// session layer. Librarians may run administrative operations.
type ActorRole string

const (
	ActorRoleLibrarian ActorRole = "LIBRARIAN"
	ActorRoleMember    ActorRole = "MEMBER"
)

// Actor identifies the authenticated caller of an operation.
type Actor struct {
	UserID int32     `json:"user_id"`
	Role   ActorRole `json:"role"`
}

func (a Actor) IsLibrarian() bool {
	return a.Role == ActorRoleLibrarian
}
