package constants

const (
	RoleAgent      = "agent"
	RoleSupervisor = "supervisor"
	RoleAdmin      = "admin"
)

// AllRoles lists every role an account may carry.
var AllRoles = []string{
	RoleAgent,
	RoleSupervisor,
	RoleAdmin,
}

func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}
