// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package access is the authorization policy of the API.

Every permission question is answered by one lookup in a static table that maps
(resource, action) to the capability an actor must hold. Evaluation is a pure
function of the actor, so the whole matrix is testable without HTTP plumbing.

Architecture:

  - Action-level: [Decide] runs before any object is loaded (list, create, ...).
  - Object-level: [DecideObject] resolves "owner" capabilities against a loaded
    record and falls back to the "moderate" action for non-owners.
  - Admins and superusers hold every capability.
*/
package access

import (
	"github.com/taibuivan/reviewboard/internal/platform/apperr"
	"github.com/taibuivan/reviewboard/internal/platform/sec"
)

// # Vocabulary

// Resource names a family of records exposed by the API.
type Resource string

const (
	ResourceCategory Resource = "category"
	ResourceGenre    Resource = "genre"
	ResourceTitle    Resource = "title"
	ResourceReview   Resource = "review"
	ResourceComment  Resource = "comment"
	ResourceUser     Resource = "user"
	// ResourceProfile is the caller's own account (/users/me).
	ResourceProfile Resource = "profile"
)

// Action is an operation on a resource.
type Action string

const (
	ActionList     Action = "list"
	ActionRetrieve Action = "retrieve"
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
	// ActionModerate is editing or removing content authored by someone else.
	ActionModerate Action = "moderate"
)

// Capability is the requirement an actor must satisfy.
type Capability int

const (
	// CapabilityNone marks a pair missing from the table; it is always denied.
	CapabilityNone Capability = iota
	CapabilityAnyone
	CapabilityAuthenticated
	// CapabilityOwner is resolved per object by [DecideObject].
	CapabilityOwner
	CapabilityModerator
	CapabilityAdmin
)

// Decision is the outcome of a policy evaluation.
type Decision int

const (
	Allow Decision = iota
	// DenyUnauthenticated means the actor must sign in first (HTTP 401).
	DenyUnauthenticated
	// DenyForbidden means the actor is known but lacks the capability (HTTP 403).
	DenyForbidden
)

// # Policy Table

type rule map[Action]Capability

var (
	catalogRule = rule{
		ActionList:     CapabilityAnyone,
		ActionRetrieve: CapabilityAnyone,
		ActionCreate:   CapabilityAdmin,
		ActionUpdate:   CapabilityAdmin,
		ActionDelete:   CapabilityAdmin,
		ActionModerate: CapabilityAdmin,
	}

	feedbackRule = rule{
		ActionList:     CapabilityAnyone,
		ActionRetrieve: CapabilityAnyone,
		ActionCreate:   CapabilityAuthenticated,
		ActionUpdate:   CapabilityOwner,
		ActionDelete:   CapabilityOwner,
		ActionModerate: CapabilityModerator,
	}

	policy = map[Resource]rule{
		ResourceCategory: catalogRule,
		ResourceGenre:    catalogRule,
		ResourceTitle:    catalogRule,
		ResourceReview:   feedbackRule,
		ResourceComment:  feedbackRule,
		ResourceUser: {
			ActionList:     CapabilityAdmin,
			ActionRetrieve: CapabilityAdmin,
			ActionCreate:   CapabilityAdmin,
			ActionUpdate:   CapabilityAdmin,
			ActionDelete:   CapabilityAdmin,
			ActionModerate: CapabilityAdmin,
		},
		ResourceProfile: {
			ActionRetrieve: CapabilityAuthenticated,
			ActionUpdate:   CapabilityAuthenticated,
		},
	}
)

// Required returns the capability the table demands for (resource, action).
func Required(resource Resource, action Action) Capability {
	return policy[resource][action]
}

// # Actor

// Actor is the identity a request acts as. The zero value is anonymous.
type Actor struct {
	UserID    string
	Username  string
	Role      sec.Role
	Superuser bool
}

// FromClaims builds an [Actor] from verified token claims. Nil claims yield an anonymous actor.
func FromClaims(claims *sec.AuthClaims) Actor {
	if claims == nil {
		return Actor{}
	}

	role := sec.Role(claims.Role)
	if !role.Valid() {
		role = sec.RoleUser
	}

	return Actor{
		UserID:    claims.UserID,
		Username:  claims.Username,
		Role:      role,
		Superuser: claims.Superuser,
	}
}

// Authenticated reports whether the actor carries an identity.
func (actor Actor) Authenticated() bool {
	return actor.UserID != ""
}

// IsAdmin reports whether the actor holds the admin role or the superuser flag.
func (actor Actor) IsAdmin() bool {
	return actor.Authenticated() && (actor.Superuser || actor.Role == sec.RoleAdmin)
}

// # Evaluation

// Decide evaluates an action-level permission. Owner capabilities only require
// authentication here; ownership is settled later by [DecideObject].
func Decide(actor Actor, resource Resource, action Action) Decision {
	return evaluate(actor, Required(resource, action))
}

// DecideObject evaluates a permission against an existing record owned by ownerID.
func DecideObject(actor Actor, resource Resource, action Action, ownerID string) Decision {
	capability := Required(resource, action)
	if capability != CapabilityOwner {
		return evaluate(actor, capability)
	}

	if !actor.Authenticated() {
		return DenyUnauthenticated
	}

	if ownerID != "" && actor.UserID == ownerID {
		return Allow
	}

	return evaluate(actor, Required(resource, ActionModerate))
}

func evaluate(actor Actor, capability Capability) Decision {
	if capability == CapabilityAnyone {
		return Allow
	}

	if !actor.Authenticated() {
		return DenyUnauthenticated
	}

	if capability == CapabilityNone {
		return DenyForbidden
	}

	if actor.IsAdmin() {
		return Allow
	}

	switch capability {
	case CapabilityAuthenticated, CapabilityOwner:
		return Allow
	case CapabilityModerator:
		if actor.Role.AtLeast(sec.RoleModerator) {
			return Allow
		}
	}

	return DenyForbidden
}

// Err converts a decision into the matching [apperr.AppError], or nil when allowed.
func (decision Decision) Err() error {
	switch decision {
	case Allow:
		return nil
	case DenyUnauthenticated:
		return apperr.Unauthorized("Authentication credentials were not provided")
	default:
		return apperr.Forbidden("You do not have permission to perform this action")
	}
}

// String implements [fmt.Stringer] for log fields.
func (decision Decision) String() string {
	switch decision {
	case Allow:
		return "allow"
	case DenyUnauthenticated:
		return "unauthenticated"
	default:
		return "forbidden"
	}
}
