package access

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Role is the closed set of account kinds. Everything the service gates on
// goes through a Role value, never a raw string comparison at call sites.
type Role uint8

const (
	RoleStudent Role = iota
	RoleAdmin
)

func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "student":
		return RoleStudent, nil
	case "admin":
		return RoleAdmin, nil
	}
	return RoleStudent, fmt.Errorf("unknown role: %q", s)
}

func (r Role) String() string {
	if r == RoleAdmin {
		return "admin"
	}
	return "student"
}

func (r Role) MarshalJSON() ([]byte, error) { return json.Marshal(r.String()) }

func (r *Role) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// rolePermissions maps each role to its capability set.
var rolePermissions = map[Role][]string{
	RoleStudent: {
		"subject:view",
		"module:view",
		"lecture:view",
		"test:take",
		"attempt:submit",
		"journal:view-own",
		"schedule:view",
		"user:change_password",
	},
	RoleAdmin: {
		"*", // everything
	},
}

func (r Role) Can(perm string) bool {
	perms, ok := rolePermissions[r]
	if !ok {
		return false
	}
	for _, p := range perms {
		if p == "*" || matchPerm(p, perm) {
			return true
		}
	}
	return false
}

func (r Role) CanAny(perms ...string) bool {
	for _, p := range perms {
		if r.Can(p) {
			return true
		}
	}
	return false
}

func matchPerm(pattern, perm string) bool {
	if pattern == perm {
		return true
	}
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(perm, strings.TrimSuffix(pattern, "*"))
	}
	return false
}
