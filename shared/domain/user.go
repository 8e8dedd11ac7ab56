package domain

import "time"

type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleMember Role = "Member"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

type User struct {
	Id         UserId
	Name       string
	Email      Email
	PassHash   string
	Role       Role
	IsVerified bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type Credentials struct {
	Email    Email
	Password Password
}

type RegistrationData struct {
	Name     string
	Email    Email
	Password Password
	Role     Role // empty means "use the configured default"
}

// Session is what a successful login hands back to the caller.
type Session struct {
	Token string
	User  User
}
