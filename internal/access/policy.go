package access

import "errors"

// ErrForbidden marks a group-visibility violation. Handlers convert it into
// an in-page "access denied" state, never a panic or a bare 500.
var ErrForbidden = errors.New("access denied")

// CanViewSubject reports whether a caller may see a subject. Students only
// see subjects of their own study group; admins see everything.
func CanViewSubject(role Role, userGroupID *int64, subjectGroupID int64) bool {
	if role == RoleAdmin {
		return true
	}
	return userGroupID != nil && *userGroupID == subjectGroupID
}

// CanViewLecture reports whether a caller may open a lecture. Students must
// belong to one of the lecture's assigned groups.
func CanViewLecture(role Role, userGroupID *int64, assignedGroupIDs []int64) bool {
	if role == RoleAdmin {
		return true
	}
	if userGroupID == nil {
		return false
	}
	for _, g := range assignedGroupIDs {
		if g == *userGroupID {
			return true
		}
	}
	return false
}
