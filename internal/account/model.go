package account

// Credentials is the (number, PIN) pair handed to the holder of a new card.
type Credentials struct {
	Number string `json:"number"`
	PIN    string `json:"pin"`
}

// Session is the identity established by Authenticate. It is passed
// explicitly to every per-card operation, which re-checks it against the
// store so a closed card cannot be used through a stale session.
type Session struct {
	Number string `json:"number"`
	PIN    string `json:"pin"`
}
