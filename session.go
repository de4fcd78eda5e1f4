package cockpit

// User identifies the signed-in account as reported by the server.
type User struct {
	ID    string
	Email string
	Name  string
}

// Session is the client's authenticated state: the bearer token and the
// user it belongs to. Both halves are persisted together and restored
// together; a session missing either half is treated as absent.
type Session struct {
	Token string
	User  User
}

// Valid reports whether the session carries enough state to authenticate.
func (s Session) Valid() bool {
	return s.Token != "" && s.User.ID != ""
}
