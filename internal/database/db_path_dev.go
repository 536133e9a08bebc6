//go:build !prod

package database

// GetDefaultDBPath keeps the dev database next to the working tree.
func GetDefaultDBPath() string {
	return "reportgen.db"
}
