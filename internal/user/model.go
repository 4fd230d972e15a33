package user

import "time"

// Roles assigned to principals. The server stores exactly one role per user.
const (
	RoleCustomer = "CUSTOMER"
	RoleAdmin    = "ADMIN"
)

// Request-scoped keys under which the authentication middleware exposes the
// verified principal to handlers.
const (
	LocalUserID = "user_id"
	LocalRole   = "role"
)

// User represents a registered account holder or administrator.
type User struct {
	ID           string
	Username     string
	Email        string
	FirstName    string
	LastName     string
	PhoneNumber  string
	Address      string
	PasswordHash []byte
	Role         string
	Active       bool
	CreatedAt    time.Time
}

// Registration carries the fields required to create a customer account.
type Registration struct {
	Username    string
	Email       string
	Password    string
	FirstName   string
	LastName    string
	PhoneNumber string
	Address     string
	AccountType string
}

// Credentials is a username/password pair presented at login.
type Credentials struct {
	Username string
	Password string
}
