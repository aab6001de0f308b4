// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table       string
	ID          string
	Username    string
	Email       string
	FirstName   string
	LastName    string
	Bio         string
	Role        string
	IsSuperuser string
	LastLogin   string
	DateJoined  string

	// Unique constraints
	EmailKey    string
	UsernameKey string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:       "users.account",
	ID:          "id",
	Username:    "username",
	Email:       "email",
	FirstName:   "first_name",
	LastName:    "last_name",
	Bio:         "bio",
	Role:        "role",
	IsSuperuser: "is_superuser",
	LastLogin:   "last_login",
	DateJoined:  "date_joined",

	EmailKey:    "account_email_key",
	UsernameKey: "account_username_key",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Username, t.Email, t.FirstName, t.LastName, t.Bio,
		t.Role, t.IsSuperuser, t.LastLogin, t.DateJoined,
	}
}
