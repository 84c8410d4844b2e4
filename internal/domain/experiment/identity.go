package experiment

import "strconv"

// Identity is the resolved visitor identity for a request: a registered user
// id, or a guest session token. Exactly one of the two is meaningful.
type Identity struct {
	UserID       int64
	SessionToken string
}

// RegisteredIdentity builds an identity for an authenticated user.
func RegisteredIdentity(userID int64) Identity {
	return Identity{UserID: userID}
}

// GuestIdentity builds an identity for an anonymous session.
func GuestIdentity(sessionToken string) Identity {
	return Identity{SessionToken: sessionToken}
}

// IsRegistered reports whether this identity belongs to an authenticated user.
func (id Identity) IsRegistered() bool {
	return id.UserID > 0
}

// Key returns the stable string hashed by the bucketer: the decimal user id
// for registered users, the session token for guests.
func (id Identity) Key() string {
	if id.IsRegistered() {
		return strconv.FormatInt(id.UserID, 10)
	}
	return id.SessionToken
}

// LogID returns the user id recorded on interaction events; guests log as 0.
func (id Identity) LogID() int64 {
	if id.IsRegistered() {
		return id.UserID
	}
	return 0
}
