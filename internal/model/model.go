// Package model holds the entities shared by the repository, service and
// handler layers. Feature specific payloads and views live in sub-packages
// (model/defect).
package model

import "time"

// Base carries the columns every table has.
type Base struct {
	ID        int64     `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// User is an account known to the service. AuthID is the subject issued by
// the identity provider for the user's sessions.
type User struct {
	Base
	AuthID   string `json:"authId" db:"auth_id"`
	Email    string `json:"email" db:"email"`
	UserName string `json:"userName" db:"user_name"`
}
