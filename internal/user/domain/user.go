package domain

import "time"

// ID is assigned by the store on insert.
type ID int64

type User struct {
	ID           ID
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Account is the externally visible record. It never carries the
// password hash.
type Account struct {
	ID        ID
	Username  string
	Email     string
	CreatedAt time.Time
}

func (u User) Account() Account {
	return Account{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
