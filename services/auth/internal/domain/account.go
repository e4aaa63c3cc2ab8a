package domain

import "time"

type Account struct {
	Email        string    `json:"email" bson:"email"`
	Name         string    `json:"name" bson:"name"`
	PasswordHash string    `json:"-" bson:"password"`
	IsVerified   bool      `json:"is_verified" bson:"is_verified"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// AccountInfo is the outward view of an account, without the hash.
type AccountInfo struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	IsVerified bool   `json:"is_verified"`
}

func (a *Account) ToAccountInfo() *AccountInfo {
	return &AccountInfo{
		Email:      a.Email,
		Name:       a.Name,
		IsVerified: a.IsVerified,
	}
}
