package domain

// Account roles. Stored and compared as upper-case tags.
const (
	RoleAdmin   = "ADMIN"
	RoleTeacher = "TEACHER"
	RoleStudent = "STUDENT"
)

// Roles lists every assignable role in display order.
func Roles() []string {
	return []string{RoleAdmin, RoleTeacher, RoleStudent}
}

// ValidRole reports whether r is one of the known role tags.
func ValidRole(r string) bool {
	for _, known := range Roles() {
		if r == known {
			return true
		}
	}
	return false
}
