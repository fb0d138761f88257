package identity

// AuthRequest carries the credentials for registration and login.
type AuthRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned on a successful login.
type AuthResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	BestScore int    `json:"best_score"`
	Token     string `json:"token"`
}
