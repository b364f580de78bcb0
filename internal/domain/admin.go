package domain

// RoleAdmin is the only role the service knows about.
const RoleAdmin = "admin"

// AdminIdentity is the single privileged account, loaded once from
// configuration at startup and immutable for the process lifetime.
type AdminIdentity struct {
	Username     string
	PasswordHash string
}

// Configured reports whether both credential fields are present. Missing
// credentials must fail closed, never default.
func (a AdminIdentity) Configured() bool {
	return a.Username != "" && a.PasswordHash != ""
}
