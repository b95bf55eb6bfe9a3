package accounts

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	IsSignup bool   `json:"isSignup"`
}

// LoginResult identifies the user and the agents they can use. Subscriptions only
// holds true values; the free agent is always present.
type LoginResult struct {
	UserID        string          `json:"userId"`
	Email         string          `json:"email"`
	Subscriptions map[string]bool `json:"subscriptions"`
	Created       bool            `json:"-"`
}
