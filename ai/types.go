package ai

// EntityTypes defines the valid categories for recognized entities.
var EntityTypes = []string{
	"organization",
	"person",
	"place",
}

// IsValidEntityType reports whether t is one of EntityTypes.
func IsValidEntityType(t string) bool {
	for _, known := range EntityTypes {
		if t == known {
			return true
		}
	}
	return false
}
