package policies

import "fmt"

// Role is the closed set of roles an actor can hold. Privileges are not
// nested (editors create posts, admins manage taxonomy), so roles are never
// compared numerically: every decision switches on the role explicitly.
type Role uint8

const (
	// RoleUnknown is an authenticated actor without a role record. It reads
	// like a reader and is denied every privileged action.
	RoleUnknown Role = iota
	RoleReader
	RoleEditor
	RoleAdmin
)

var roleNames = map[Role]string{
	RoleUnknown: "",
	RoleReader:  "reader",
	RoleEditor:  "editor",
	RoleAdmin:   "admin",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Role(%d)", uint8(r))
}

// ParseRole maps the stored/wire name to a Role. The empty string is
// RoleUnknown.
func ParseRole(s string) (Role, error) {
	switch s {
	case "":
		return RoleUnknown, nil
	case "reader":
		return RoleReader, nil
	case "editor":
		return RoleEditor, nil
	case "admin":
		return RoleAdmin, nil
	}
	return RoleUnknown, fmt.Errorf("unknown role %q", s)
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Staff reports whether the role sees drafts and may author posts.
func (r Role) Staff() bool {
	switch r {
	case RoleAdmin, RoleEditor:
		return true
	case RoleReader, RoleUnknown:
		return false
	}
	return false
}

// Actor is the caller of an operation. The zero value is the anonymous
// actor.
type Actor struct {
	ID   int64
	Role Role
}

// Anonymous is the unauthenticated caller.
var Anonymous = Actor{}

func (a Actor) Authenticated() bool {
	return a.ID != 0
}

// Is reports whether the actor is authenticated and holds role r.
func (a Actor) Is(r Role) bool {
	return a.Authenticated() && a.Role == r
}
