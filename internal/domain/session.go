package domain

// Credential is an authenticated marketplace identity. The session
// provider owns it; the feed client borrows it per request and never
// mutates it.
type Credential struct {
	// Token is the opaque auth token returned by login.
	Token string
	// ClientID identifies this process to the marketplace, stable for
	// the process lifetime.
	ClientID string
}
