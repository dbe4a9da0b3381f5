package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/fbomateus/gestao-tcc/config"
	"github.com/fbomateus/gestao-tcc/internal/dto"
	"github.com/fbomateus/gestao-tcc/internal/model"
	"github.com/fbomateus/gestao-tcc/internal/repository"
	apperrors "github.com/fbomateus/gestao-tcc/pkg/errors"
	"github.com/fbomateus/gestao-tcc/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("Usuário ou senha inválidos.")
	ErrUserNotFound       = errors.New("Usuário não encontrado.")
	ErrUserInactive       = errors.New("Usuário inativo.")
	ErrTokenInvalid       = errors.New("token inválido")
	ErrTokenRevoked       = errors.New("token revogado")
)

// AuthService autenticação e cadastro público
type AuthService interface {
	// Register auto-cadastro; sempre cria ALUNO
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	// Logout revoga o access token até sua expiração
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
	Me(ctx context.Context, userID string) (*dto.UserResponse, error)
}

type authService struct {
	cfg    *config.Config
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	tokens TokenStore
	logger *zap.Logger
	now    func() time.Time
}

// NewAuthService cria AuthService; tokens pode ser nil (sem blacklist)
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	tokens TokenStore,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:    cfg,
		repo:   repo,
		jwtMgr: jwtMgr,
		tokens: tokens,
		logger: logger,
		now:    time.Now,
	}
}

// ────────────────────── Register ──────────────────────

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	user := &model.User{
		Username:     req.Username,
		NomeCompleto: req.NomeCompleto,
		Email:        normalizeEmail(req.Email),
		Tipo:         model.TipoAluno,
		Matricula:    optional(&req.Matricula),
		IsActive:     true,
	}

	fe := apperrors.FieldErrors{}
	fe.Merge(user.Clean())
	fe.Merge(checkPassword(&s.cfg.Auth, req.Password, req.PasswordConfirm))

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

	s.logger.Info("aluno cadastrado", zap.String("user_id", user.UserID), zap.String("username", user.Username))
	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.repo.User.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("falha ao buscar usuário", zap.Error(err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	if err := s.repo.User.UpdateLastLogin(ctx, user.UserID, now); err != nil {
		// não impede o login
		s.logger.Warn("falha ao registrar último login", zap.String("user_id", user.UserID), zap.Error(err))
	} else {
		user.LastLogin = &now
	}

	return s.issueTokens(user)
}

// ────────────────────── RefreshToken ──────────────────────

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(refreshToken)
	if err != nil || claims.TokenType != jwt.TokenTypeRefresh {
		return nil, ErrTokenInvalid
	}

	if s.isRevoked(ctx, claims.ID) {
		return nil, ErrTokenRevoked
	}

	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenInvalid
		}
		s.logger.Error("falha ao buscar usuário", zap.Error(err))
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	// rotação: o refresh token usado não vale mais
	s.revoke(ctx, claims.ID, claims.ExpiresAt.Time)

	return s.issueTokens(user)
}

// ────────────────────── Logout / Me ──────────────────────

func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	s.revoke(ctx, jti, expiresAt)
	return nil
}

func (s *authService) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// ── auxiliares ──

func (s *authService) issueTokens(user *model.User) (*dto.TokenResponse, error) {
	accessToken, err := s.jwtMgr.GenerateAccessToken(user.UserID, user.Tipo)
	if err != nil {
		s.logger.Error("falha ao gerar access token", zap.Error(err))
		return nil, err
	}
	refreshToken, err := s.jwtMgr.GenerateRefreshToken(user.UserID, user.Tipo)
	if err != nil {
		s.logger.Error("falha ao gerar refresh token", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User:         toUserResponse(user),
	}, nil
}

// revoke sem Redis vira no-op
func (s *authService) revoke(ctx context.Context, jti string, expiresAt time.Time) {
	if s.tokens == nil || jti == "" {
		return
	}
	if err := s.tokens.BlacklistToken(ctx, jti, expiresAt.Sub(s.now())); err != nil {
		s.logger.Warn("falha ao revogar token", zap.String("jti", jti), zap.Error(err))
	}
}

func (s *authService) isRevoked(ctx context.Context, jti string) bool {
	if s.tokens == nil {
		return false
	}
	revoked, err := s.tokens.IsBlacklisted(ctx, jti)
	if err != nil {
		s.logger.Warn("falha ao consultar blacklist", zap.Error(err))
		return false
	}
	return revoked
}
