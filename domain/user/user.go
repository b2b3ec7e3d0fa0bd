// Package user provides the owner domain type.
package user

// User is a media owner. Credentials and signup live outside this system;
// only the identity and the sharing flag matter here. When shared is true,
// the owner's items are publicly readable through the shared view keyed by
// the owner identifier.
type User struct {
	id       string
	username string
	shared   bool
}

// New creates a User.
func New(id, username string, shared bool) User {
	return User{id: id, username: username, shared: shared}
}

// ID returns the owner identifier.
func (u User) ID() string { return u.id }

// Username returns the display name.
func (u User) Username() string { return u.username }

// Shared reports whether the owner's items are publicly visible.
func (u User) Shared() bool { return u.shared }
