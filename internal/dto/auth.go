package dto

// ── autenticação ──

// LoginRequest login por username
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=150"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest cadastro público (somente alunos)
type RegisterRequest struct {
	Username        string `json:"username"         binding:"required,username,max=150"`
	NomeCompleto    string `json:"nome_completo"    binding:"required,max=150"`
	Email           string `json:"email"            binding:"required,email,max=254"`
	Matricula       string `json:"matricula"        binding:"max=20"`
	Password        string `json:"password"         binding:"required,max=128"`
	PasswordConfirm string `json:"password_confirm" binding:"required,max=128"`
}

// RefreshTokenRequest troca de refresh token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenResponse par de tokens
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"` // segundos
	User         UserResponse `json:"user"`
}
