package model

import (
	"time"

	"github.com/google/uuid"
)

// Account type constants
const (
	AccountTypePatient  = "u"
	AccountTypeProvider = "p"
)

type User struct {
	ID          int64     `json:"-"`
	UUID        uuid.UUID `json:"uuid"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	AccountType string    `json:"account_type"`
	ProviderID  *int64    `json:"-"` // provider selected by this patient, nil if none
	CreatedAt   time.Time `json:"created_at"`
}

// IsProvider checks if the account is a provider account
func (u *User) IsProvider() bool {
	return u.AccountType == AccountTypeProvider
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
