package devchat

// Role represents the role of a message sender.
//
// RoleSystem is synthesized internally (summary injection by the windower)
// and is never accepted from clients as stored history.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}
