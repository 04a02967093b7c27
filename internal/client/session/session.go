// Package session holds the client's authentication state and the gate that
// protected views consult before rendering.
package session

import "github.com/oksasatya/go-blog-platform/internal/domain/entity"

// Session is the client's proof of login: the bearer token and the public
// detail view of the user it belongs to.
type Session struct {
	Token string            `json:"token"`
	User  entity.UserDetail `json:"user"`
}

// Snapshot is the state observed by subscribers. Loaded is false until the
// durable state has been read once; Session is nil when logged out.
type Snapshot struct {
	Loaded  bool
	Session *Session
}

func (s Snapshot) Authenticated() bool {
	return s.Loaded && s.Session != nil && s.Session.Token != ""
}
