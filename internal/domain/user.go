package domain

import "time"

type UserRole string

const (
	UserRoleAdmin    UserRole = "ADMIN"
	UserRoleCustomer UserRole = "CUSTOMER"
)

type User struct {
	ID           int32     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PhoneNumber  string    `json:"phone_number"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	Locked       bool      `json:"locked"`
	CreatedOn    time.Time `json:"created_on"`
}

func (u *User) IsAdmin() bool { return u.Role == UserRoleAdmin }
