package auth

import "time"

// UserType decides which screens and routes a user can reach.
type UserType string

const (
	TypeEmployee UserType = "Employee"
	TypeAdmin    UserType = "Admin"
)

func (t UserType) Valid() bool {
	return t == TypeEmployee || t == TypeAdmin
}

type User struct {
	Email        string
	Type         UserType
	PasswordHash string
	CreatedAt    time.Time
}
