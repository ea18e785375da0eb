package policies

import "iter"

// SeesDrafts reports whether the actor may see posts in any status. Stores
// use it to push the published-only restriction into their queries.
func SeesDrafts(actor Actor) bool {
	return actor.Authenticated() && actor.Role.Staff()
}

// CanView is the single-post form of FilterVisible.
func CanView(actor Actor, target Target) bool {
	return visibility(actor, target).Allowed
}

func visibility(actor Actor, target Target) Decision {
	if SeesDrafts(actor) {
		return allow(ReasonStaffVisible)
	}
	if target.Status == StatusPublished {
		return allow(ReasonPublished)
	}
	return deny(ReasonHidden)
}

// FilterVisible narrows posts to those the actor may see. The result is
// lazy and keeps the input order; ranging over it again ranges over posts
// again.
func FilterVisible[P Targeter](actor Actor, posts iter.Seq[P]) iter.Seq[P] {
	if SeesDrafts(actor) {
		return posts
	}
	return func(yield func(P) bool) {
		for p := range posts {
			if p.PolicyTarget().Status != StatusPublished {
				continue
			}
			if !yield(p) {
				return
			}
		}
	}
}

// FilterOwned keeps the posts authored by the actor. It runs before
// FilterVisible on the "my posts" path and never widens it.
func FilterOwned[P Targeter](actor Actor, posts iter.Seq[P]) iter.Seq[P] {
	return func(yield func(P) bool) {
		if !actor.Authenticated() {
			return
		}
		for p := range posts {
			if p.PolicyTarget().OwnerID != actor.ID {
				continue
			}
			if !yield(p) {
				return
			}
		}
	}
}
