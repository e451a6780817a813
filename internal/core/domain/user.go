package domain

import "time"

const (
	RoleAdmin       = "admin"
	RoleCustomer    = "customer"
	RoleCourier     = "courier"
	RoleBranchStaff = "branch_staff"
)

// User models an authenticated actor in the system.
type User struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Role         string    `json:"role" bson:"role"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// UserAddress is a saved pickup address with pre-resolved coordinates.
type UserAddress struct {
	ID          string      `json:"id" bson:"_id,omitempty"`
	UserID      string      `json:"user_id" bson:"user_id"`
	Address     string      `json:"address" bson:"address"`
	Coordinates Coordinates `json:"coordinates" bson:"coordinates"`
	UserEmail   string      `json:"user_email" bson:"user_email"`
}

// Branch is a physical sorting branch.
type Branch struct {
	ID      string `json:"id" bson:"_id,omitempty"`
	Name    string `json:"name" bson:"name"`
	Address string `json:"address" bson:"address"`
}

// EmployeeBranch assigns an employee (courier or branch staff) to a branch.
type EmployeeBranch struct {
	ID       string `json:"id" bson:"_id,omitempty"`
	UserID   string `json:"user_id" bson:"user_id"`
	BranchID string `json:"branch_id" bson:"branch_id"`
}
