package domain

import "strings"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleBusiness Role = "business"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleBusiness
}

// ParseRole accepts any casing of a known role name.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.Valid()
}

type User struct {
	Id       UserId `json:"id"`
	Email    Email  `json:"email"`
	Role     Role   `json:"role"`
	PassHash string `json:"-"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type Credentials struct {
	Email    Email
	Password Password
}
