// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account manages user records: the admin collection under /users and the
caller's own profile at /users/me.

Accounts are stored through [auth.UserRepository]; this package only adds the
management rules on top of it.

# Role changes

Only an admin or a superuser may change a role. A payload from anyone else that
carries a role field is rejected with 403 before any other field is considered.
*/
package account

import (
	"github.com/taibuivan/reviewboard/internal/platform/sec"
)

// FieldRole is the payload key guarded by the role assignment rule.
const FieldRole = sec.FieldRole

const messageRoleChange = "Only admin can change role"

// Input is the create and patch payload. Nil fields are left untouched on patch.
type Input struct {
	Username  *string   `json:"username"`
	Email     *string   `json:"email"`
	FirstName *string   `json:"first_name"`
	LastName  *string   `json:"last_name"`
	Bio       *string   `json:"bio"`
	Role      *sec.Role `json:"role"`
}

// Filter holds the admin search parameters.
type Filter struct {
	Search string
}
