// Package policies holds the authorization and visibility rules of the CMS.
//
// Everything here is a pure function of its arguments: the caller passes the
// actor explicitly, resolves the target resource itself, and decides how a
// Deny is reported. Nothing in this package touches storage or HTTP.
package policies

import "fmt"

type Action string

const (
	ActionList          Action = "list"
	ActionRetrieve      Action = "retrieve"
	ActionCreate        Action = "create"
	ActionUpdate        Action = "update"
	ActionPartialUpdate Action = "partial_update"
	ActionDestroy       Action = "destroy"
)

// Read reports whether the action only reads.
func (a Action) Read() bool {
	return a == ActionList || a == ActionRetrieve
}

// Mutates reports whether the action changes an existing resource.
func (a Action) Mutates() bool {
	return a == ActionUpdate || a == ActionPartialUpdate || a == ActionDestroy
}

type Kind string

const (
	KindPost     Kind = "post"
	KindCategory Kind = "category"
	KindTag      Kind = "tag"
	KindUser     Kind = "user"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// Target is what the rules need to know about a resolved resource. OwnerID
// is the author for posts and the user itself for users; Status only
// matters for posts.
type Target struct {
	OwnerID int64
	Status  Status
}

// Targeter is implemented by stored resources that can be checked
// object-level.
type Targeter interface {
	PolicyTarget() Target
}

// Decision is the outcome of Authorize.
type Decision struct {
	Allowed bool
	Reason  Reason
}

func (d Decision) String() string {
	if d.Allowed {
		return "allow"
	}
	return "deny"
}

// Reason names the rule that decided.
type Reason string

const (
	ReasonPublicRead     Reason = "public_read"
	ReasonAdminOnly      Reason = "admin_only"
	ReasonStaffOnly      Reason = "staff_only"
	ReasonAdmin          Reason = "admin"
	ReasonOwner          Reason = "owner"
	ReasonNotOwner       Reason = "not_owner"
	ReasonCollectionRead Reason = "collection_read"
	ReasonPublished      Reason = "published"
	ReasonStaffVisible   Reason = "staff_visible"
	ReasonHidden         Reason = "hidden"
	ReasonNoRule         Reason = "no_rule"
)

func allow(r Reason) Decision { return Decision{Allowed: true, Reason: r} }
func deny(r Reason) Decision  { return Decision{Allowed: false, Reason: r} }

// Authorize decides whether actor may perform action on a resource of the
// given kind. target is nil for collection-level actions (list, create) and
// set for object-level ones. The first matching rule decides.
func Authorize(actor Actor, action Action, kind Kind, target *Target) Decision {
	switch kind {
	case KindCategory, KindTag:
		if action.Read() {
			return allow(ReasonPublicRead)
		}
		if actor.Is(RoleAdmin) {
			return allow(ReasonAdmin)
		}
		return deny(ReasonAdminOnly)

	case KindUser:
		if action.Read() {
			return allow(ReasonPublicRead)
		}
		return authorizeUserWrite(actor, action, target)

	case KindPost:
		switch {
		case action == ActionCreate:
			if actor.Authenticated() && actor.Role.Staff() {
				return allow(ReasonStaffOnly)
			}
			return deny(ReasonStaffOnly)
		case action.Mutates():
			return authorizePostWrite(actor, target)
		case action.Read():
			if target == nil {
				return allow(ReasonCollectionRead)
			}
			return visibility(actor, *target)
		}
	}
	return deny(ReasonNoRule)
}

func authorizePostWrite(actor Actor, target *Target) Decision {
	if !actor.Authenticated() {
		return deny(ReasonNotOwner)
	}
	switch actor.Role {
	case RoleAdmin:
		return allow(ReasonAdmin)
	case RoleEditor:
		if target != nil && target.OwnerID == actor.ID {
			return allow(ReasonOwner)
		}
		return deny(ReasonNotOwner)
	case RoleReader, RoleUnknown:
		return deny(ReasonStaffOnly)
	}
	return deny(ReasonNoRule)
}

func authorizeUserWrite(actor Actor, action Action, target *Target) Decision {
	if !actor.Authenticated() {
		return deny(ReasonNoRule)
	}
	switch action {
	case ActionUpdate, ActionPartialUpdate:
		if actor.Is(RoleAdmin) {
			return allow(ReasonAdmin)
		}
		if target != nil && target.OwnerID == actor.ID {
			return allow(ReasonOwner)
		}
		return deny(ReasonNotOwner)
	case ActionDestroy:
		if actor.Is(RoleAdmin) {
			return allow(ReasonAdmin)
		}
		return deny(ReasonAdminOnly)
	case ActionCreate, ActionList, ActionRetrieve:
	}
	return deny(ReasonNoRule)
}

// CanAssignRole reports whether actor may set another user's role,
// including choosing a non-default role at registration.
func CanAssignRole(actor Actor) bool {
	return actor.Is(RoleAdmin)
}

// Denied builds an error-friendly description of a deny, for logs.
func Denied(actor Actor, action Action, kind Kind, d Decision) string {
	return fmt.Sprintf("%s %s on %s denied for role %q (%s)", actorLabel(actor), action, kind, actor.Role, d.Reason)
}

func actorLabel(a Actor) string {
	if !a.Authenticated() {
		return "anonymous"
	}
	return fmt.Sprintf("actor %d", a.ID)
}
