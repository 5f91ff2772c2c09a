package models

import "time"

// UserType is the access level of an account.
type UserType string

const (
	UserTypeAdmin UserType = "ADMIN"
	UserTypeStaff UserType = "STAFF"
)

// User represents an application user stored in the users table.
type User struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name" json:"fullName"`
	Type         UserType   `db:"type" json:"type"`
	BranchID     *string    `db:"branch_id" json:"branchId,omitempty"`
	RoleID       *string    `db:"role_id" json:"roleId,omitempty"`
	Active       bool       `db:"active" json:"active"`
	LastLogin    *time.Time `db:"last_login" json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
}

// CreateUserRequest is the payload for registering staff or admins.
type CreateUserRequest struct {
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=8"`
	FullName string   `json:"fullName" validate:"required,max=120"`
	Type     UserType `json:"type" validate:"required,oneof=ADMIN STAFF"`
	BranchID *string  `json:"branchId"`
	RoleID   *string  `json:"roleId"`
}

// UpdateUserRequest carries the mutable user fields; nil fields are left as is.
type UpdateUserRequest struct {
	FullName *string   `json:"fullName" validate:"omitempty,max=120"`
	Type     *UserType `json:"type" validate:"omitempty,oneof=ADMIN STAFF"`
	BranchID *string   `json:"branchId"`
	RoleID   *string   `json:"roleId"`
	Active   *bool     `json:"active"`
	Password *string   `json:"password" validate:"omitempty,min=8"`
}
