// Package session holds the client's credential between runs. The session is
// an explicit value handed through the application, not ambient state; the
// Store abstracts where it persists.
package session

type Session struct {
	Token    string `json:"token"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Store is the injectable persistence capability: load on start, save on
// change, clear on logout.
type Store interface {
	Load() (Session, bool, error)
	Save(s Session) error
	Clear() error
}
