package partner

import "strings"

// DeriveFullName joins first and last name with a single space
func DeriveFullName(firstName, lastName string) string {
	return strings.TrimSpace(strings.TrimSpace(firstName) + " " + strings.TrimSpace(lastName))
}

// DeriveAccountName returns the ledger account name for a display name
func DeriveAccountName(name string) string {
	return strings.TrimSpace(name)
}
