// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/taibuivan/reviewboard/internal/platform/apperr"
)

// # User Roles

// Role represents the authorization level granted to an account.
//
// The set is closed: any value outside [Roles] is rejected when parsed or decoded.
type Role string

const (
	// RoleUser is the default role for registered accounts.
	RoleUser Role = "user"

	// RoleModerator may edit or remove any review and comment.
	RoleModerator Role = "moderator"

	// RoleAdmin has unrestricted access, including role assignment.
	RoleAdmin Role = "admin"
)

// FieldRole is the JSON field name carrying a [Role].
const FieldRole = "role"

// Roles lists every valid role, lowest privilege first.
var Roles = []Role{RoleUser, RoleModerator, RoleAdmin}

// ParseRole converts a raw string into a [Role], rejecting unknown values.
func ParseRole(raw string) (Role, error) {
	role := Role(raw)
	if !role.Valid() {
		return "", apperr.FieldInvalid(FieldRole, fmt.Sprintf("%q is not a valid choice (%s)", raw, roleChoices()))
	}
	return role, nil
}

// Valid reports whether r belongs to the closed role set.
func (r Role) Valid() bool {
	return r.level() > 0
}

// String implements [fmt.Stringer].
func (r Role) String() string { return string(r) }

// UnmarshalJSON decodes a role and rejects values outside the closed set.
func (r *Role) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return apperr.FieldInvalid(FieldRole, "Must be a string")
	}

	parsed, err := ParseRole(raw)
	if err != nil {
		return err
	}

	*r = parsed
	return nil
}

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r Role) AtLeast(target Role) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r Role) level() int {
	switch r {
	case RoleAdmin:
		return 30
	case RoleModerator:
		return 20
	case RoleUser:
		return 10
	default:
		return 0
	}
}

func roleChoices() string {
	names := make([]string, len(Roles))
	for i, role := range Roles {
		names[i] = string(role)
	}
	return strings.Join(names, ", ")
}
