package dto

// ── administração de usuários ──

// UserListRequest filtros da listagem
type UserListRequest struct {
	PaginationRequest
	Tipo    string `form:"tipo"    binding:"omitempty,oneof=ALUNO ORIENTADOR"`
	Keyword string `form:"keyword" binding:"omitempty,max=50"`
}

// CreateUserRequest formulário de criação (admin)
type CreateUserRequest struct {
	Username        string  `json:"username"         binding:"required,username,max=150"`
	NomeCompleto    string  `json:"nome_completo"    binding:"required,max=150"`
	Email           string  `json:"email"            binding:"required,email,max=254"`
	Tipo            string  `json:"tipo"             binding:"required,oneof=ALUNO ORIENTADOR ADMIN"`
	Matricula       *string `json:"matricula"        binding:"omitempty,max=20"`
	AreaAtuacao     *string `json:"area_atuacao"     binding:"omitempty,max=150"`
	IsActive        *bool   `json:"is_active"`
	Password        string  `json:"password"         binding:"omitempty,max=128"`
	PasswordConfirm string  `json:"password_confirm" binding:"omitempty,max=128"`
}

// UpdateUserRequest atualização parcial (admin); campos nil ficam como estão
type UpdateUserRequest struct {
	Username        *string `json:"username"         binding:"omitempty,username,max=150"`
	NomeCompleto    *string `json:"nome_completo"    binding:"omitempty,max=150"`
	Email           *string `json:"email"            binding:"omitempty,email,max=254"`
	Tipo            *string `json:"tipo"             binding:"omitempty,oneof=ALUNO ORIENTADOR ADMIN"`
	Matricula       *string `json:"matricula"        binding:"omitempty,max=20"`
	AreaAtuacao     *string `json:"area_atuacao"     binding:"omitempty,max=150"`
	IsActive        *bool   `json:"is_active"`
	Password        string  `json:"password"         binding:"omitempty,max=128"`
	PasswordConfirm string  `json:"password_confirm" binding:"omitempty,max=128"`
}

// UserDetailResponse usuário + temas em que participa
type UserDetailResponse struct {
	User  UserResponse   `json:"user"`
	Temas []TemaResponse `json:"temas"`
}

// OrientadorDetailResponse orientador + temas orientados
type OrientadorDetailResponse struct {
	Orientador UserResponse   `json:"orientador"`
	Temas      []TemaResponse `json:"temas"`
}
