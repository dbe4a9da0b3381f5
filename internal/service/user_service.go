package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fbomateus/gestao-tcc/config"
	"github.com/fbomateus/gestao-tcc/internal/dto"
	"github.com/fbomateus/gestao-tcc/internal/model"
	"github.com/fbomateus/gestao-tcc/internal/repository"
	apperrors "github.com/fbomateus/gestao-tcc/pkg/errors"
)

// ── administração de usuários ──

var (
	ErrNoPermission     = errors.New("Você não tem permissão para acessar este recurso.")
	ErrAdminNotEditable = errors.New("Administradores não podem ser editados por aqui.")
)

// UserService administração de contas
type UserService interface {
	List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error)
	Create(ctx context.Context, req *dto.CreateUserRequest, callerID string) (*dto.UserResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateUserRequest, callerID string) (*dto.UserResponse, error)
	// GetDetail o próprio usuário ou ADMIN; inclui os temas em que participa
	GetDetail(ctx context.Context, id, callerID, callerRole string) (*dto.UserDetailResponse, error)

	// EnsureAdmin cria ou promove um ADMIN (CLI); created indica criação
	EnsureAdmin(ctx context.Context, username, email, nome, password string) (resp *dto.UserResponse, created bool, err error)
	// SetPassword troca a senha pelo username (CLI)
	SetPassword(ctx context.Context, username, password string) error
}

type userService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService cria UserService
func NewUserService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{cfg: cfg, repo: repo, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *userService) List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	users, total, err := s.repo.User.ListNonAdmin(ctx,
		repository.UserFilter{Tipo: req.Tipo, Keyword: req.Keyword},
		req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("falha ao listar usuários", zap.Error(err))
		return nil, 0, err
	}
	return toUserResponses(users), total, nil
}

// ────────────────────── Create ──────────────────────

func (s *userService) Create(ctx context.Context, req *dto.CreateUserRequest, callerID string) (*dto.UserResponse, error) {
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	user := &model.User{
		Username:     req.Username,
		NomeCompleto: req.NomeCompleto,
		Email:        normalizeEmail(req.Email),
		Tipo:         req.Tipo,
		Matricula:    optional(req.Matricula),
		AreaAtuacao:  optional(req.AreaAtuacao),
		IsActive:     isActive,
		BaseModel:    model.BaseModel{CreatedBy: &callerID},
	}

	fe := apperrors.FieldErrors{}
	fe.Merge(user.Clean())

	if req.Password == "" && req.PasswordConfirm == "" {
		fe.Add("password", msgPasswordRequired)
	} else {
		fe.Merge(checkPassword(&s.cfg.Auth, req.Password, req.PasswordConfirm))
	}

	dups, err := checkUnique(ctx, s.repo.User, user, "")
	if err != nil {
		s.logger.Error("falha ao verificar unicidade do usuário", zap.Error(err))
		return nil, err
	}
	fe.Merge(dups.Err())

	if err := fe.Err(); err != nil {
		return nil, err
	}

	hash, err := hashPassword(&s.cfg.Auth, req.Password)
	if err != nil {
		s.logger.Error("falha ao gerar hash da senha", zap.Error(err))
		return nil, err
	}
	user.PasswordHash = hash

	if err := s.repo.User.Create(ctx, user); err != nil {
		if fe, ok := apperrors.AsFieldErrors(uniqueConflict(err)); ok {
			return nil, fe
		}
		s.logger.Error("falha ao criar usuário", zap.Error(err))
		return nil, err
	}

	s.logger.Info("usuário criado",
		zap.String("user_id", user.UserID),
		zap.String("tipo", user.Tipo),
		zap.String("por", callerID),
	)
	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── Update ──────────────────────

func (s *userService) Update(ctx context.Context, id string, req *dto.UpdateUserRequest, callerID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if user.IsAdmin() {
		return nil, ErrAdminNotEditable
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.NomeCompleto != nil {
		user.NomeCompleto = *req.NomeCompleto
	}
	if req.Email != nil {
		user.Email = normalizeEmail(*req.Email)
	}
	if req.Tipo != nil {
		user.Tipo = *req.Tipo
	}
	if req.Matricula != nil {
		user.Matricula = optional(req.Matricula)
	}
	if req.AreaAtuacao != nil {
		user.AreaAtuacao = optional(req.AreaAtuacao)
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	user.UpdatedBy = &callerID

	fe := apperrors.FieldErrors{}
	fe.Merge(user.Clean())

	changePassword := req.Password != "" || req.PasswordConfirm != ""
	if changePassword {
		fe.Merge(checkPassword(&s.cfg.Auth, req.Password, req.PasswordConfirm))
	}

	dups, err := checkUnique(ctx, s.repo.User, user, user.UserID)
	if err != nil {
		s.logger.Error("falha ao verificar unicidade do usuário", zap.Error(err))
		return nil, err
	}
	fe.Merge(dups.Err())

	if err := fe.Err(); err != nil {
		return nil, err
	}

	if changePassword {
		hash, err := hashPassword(&s.cfg.Auth, req.Password)
		if err != nil {
			s.logger.Error("falha ao gerar hash da senha", zap.Error(err))
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.repo.User.Update(ctx, user); err != nil {
		if fe, ok := apperrors.AsFieldErrors(uniqueConflict(err)); ok {
			return nil, fe
		}
		s.logger.Error("falha ao atualizar usuário", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── GetDetail ──────────────────────

func (s *userService) GetDetail(ctx context.Context, id, callerID, callerRole string) (*dto.UserDetailResponse, error) {
	if callerRole != model.TipoAdmin && callerID != id {
		return nil, ErrNoPermission
	}

	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	temas, err := s.repo.Tema.List(ctx, repository.TemaFilter{ParticipanteID: user.UserID})
	if err != nil {
		s.logger.Error("falha ao listar temas do usuário", zap.Error(err))
		return nil, err
	}

	return &dto.UserDetailResponse{
		User:  toUserResponse(user),
		Temas: toTemaResponses(temas),
	}, nil
}

// ────────────────────── CLI ──────────────────────

func (s *userService) EnsureAdmin(ctx context.Context, username, email, nome, password string) (*dto.UserResponse, bool, error) {
	fe := apperrors.FieldErrors{}
	fe.Merge(checkPassword(&s.cfg.Auth, password, password))
	if strings.TrimSpace(username) == "" {
		fe.Add("username", "Este campo é obrigatório.")
	}
	if err := fe.Err(); err != nil {
		return nil, false, err
	}

	hash, err := hashPassword(&s.cfg.Auth, password)
	if err != nil {
		return nil, false, err
	}

	user, err := s.repo.User.GetByUsername(ctx, username)
	switch {
	case err == nil:
		user.Tipo = model.TipoAdmin
		user.IsActive = true
		user.PasswordHash = hash
		if email != "" {
			user.Email = normalizeEmail(email)
		}
		if nome != "" {
			user.NomeCompleto = nome
		}
		if err := s.repo.User.Update(ctx, user); err != nil {
			return nil, false, uniqueConflict(err)
		}
		s.logger.Info("usuário promovido a administrador", zap.String("username", username))
		resp := toUserResponse(user)
		return &resp, false, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		if nome == "" {
			nome = username
		}
		user = &model.User{
			Username:     username,
			NomeCompleto: nome,
			Email:        normalizeEmail(email),
			Tipo:         model.TipoAdmin,
			IsActive:     true,
			PasswordHash: hash,
		}
		dups, err := checkUnique(ctx, s.repo.User, user, "")
		if err != nil {
			return nil, false, err
		}
		if err := dups.Err(); err != nil {
			return nil, false, err
		}
		if err := s.repo.User.Create(ctx, user); err != nil {
			return nil, false, uniqueConflict(err)
		}
		s.logger.Info("administrador criado", zap.String("username", username))
		resp := toUserResponse(user)
		return &resp, true, nil

	default:
		return nil, false, err
	}
}

func (s *userService) SetPassword(ctx context.Context, username, password string) error {
	if err := checkPassword(&s.cfg.Auth, password, password); err != nil {
		return err
	}

	user, err := s.repo.User.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	hash, err := hashPassword(&s.cfg.Auth, password)
	if err != nil {
		return err
	}
	user.PasswordHash = hash

	if err := s.repo.User.Update(ctx, user); err != nil {
		return err
	}
	s.logger.Info("senha redefinida", zap.String("username", username))
	return nil
}
