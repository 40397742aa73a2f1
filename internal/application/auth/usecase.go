package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/amancio-obras/estoque-obras/internal/application/dto"
	"github.com/amancio-obras/estoque-obras/internal/application/ports"
	"github.com/amancio-obras/estoque-obras/internal/domain"
	"github.com/amancio-obras/estoque-obras/pkg/jwt"
	"github.com/amancio-obras/estoque-obras/pkg/logger"
)

// RevokedSessionPrefix prefixo das sessões revogadas no cache (fora do cache de leitura).
const RevokedSessionPrefix = "estoque:sessao:revogada:"

// JWTConfig configuração para geração de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AdminCredentials par único de credenciais do administrador.
// PasswordHash (bcrypt) tem prioridade sobre Password.
type AdminCredentials struct {
	User         string
	Password     string
	PasswordHash string
}

// AuthUseCase casos de uso de autenticação: login, logout e validação do token.
type AuthUseCase struct {
	admin  AdminCredentials
	jwtCfg JWTConfig
	cache  ports.Cache
	log    *logger.Logger
	now    func() time.Time
}

// NewAuthUseCase constrói o caso de uso de auth. cache pode ser nil (logout sem revogação).
func NewAuthUseCase(admin AdminCredentials, jwtCfg JWTConfig, cache ports.Cache, log *logger.Logger) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{admin: admin, jwtCfg: jwtCfg, cache: cache, log: log, now: time.Now}
}

// Login verifica usuário e senha e emite um token de sessão.
// Credenciais erradas devolvem ErrUnauthorized e nunca um token.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, domain.ErrUnauthorized
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(uc.admin.User)) == 1
	passOK := uc.checkPassword(in.Password)
	if !userOK || !passOK {
		uc.log.Warn().Str("username", username).Msg("login recusado")
		return nil, domain.ErrUnauthorized
	}

	sessionID := uuid.New().String()
	token, err := jwt.Generate(uc.jwtCfg.Secret, uc.admin.User, sessionID, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("username", uc.admin.User).Str("sessao", sessionID).Msg("login")
	return &dto.LoginResponse{
		Token:     token,
		Username:  uc.admin.User,
		ExpiresAt: uc.now().Add(time.Duration(uc.jwtCfg.ExpMinutes) * time.Minute),
	}, nil
}

func (uc *AuthUseCase) checkPassword(password string) bool {
	if uc.admin.PasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(uc.admin.PasswordHash), []byte(password)) == nil
	}
	if uc.admin.Password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(uc.admin.Password)) == 1
}

// Validate verifica assinatura, expiração e revogação do token.
func (uc *AuthUseCase) Validate(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := jwt.Parse(uc.jwtCfg.Secret, token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	if claims.ID == "" {
		return nil, domain.ErrUnauthorized
	}
	if uc.cache != nil {
		var revoked bool
		hit, err := uc.cache.Get(ctx, RevokedSessionPrefix+claims.ID, &revoked)
		if err != nil {
			// sem a lista de revogação não há como saber se houve logout
			uc.log.Warn().Err(err).Str("sessao", claims.ID).Msg("cache indisponível ao verificar revogação")
			return nil, fmt.Errorf("%w: verificar revogação: %v", domain.ErrUnavailable, err)
		}
		if hit && revoked {
			return nil, domain.ErrUnauthorized
		}
	}
	return claims, nil
}

// Logout revoga a sessão até a expiração do token.
func (uc *AuthUseCase) Logout(ctx context.Context, claims *jwt.Claims) error {
	if claims == nil || claims.ID == "" {
		return domain.ErrUnauthorized
	}
	if uc.cache == nil {
		return nil
	}
	ttl := time.Minute
	if claims.ExpiresAt != nil {
		if d := claims.ExpiresAt.Sub(uc.now()); d > 0 {
			ttl = d
		}
	}
	if err := uc.cache.Set(ctx, RevokedSessionPrefix+claims.ID, true, ttl); err != nil {
		return fmt.Errorf("%w: revogar sessão: %v", domain.ErrUnavailable, err)
	}
	uc.log.Info().Str("username", claims.Username).Str("sessao", claims.ID).Msg("logout")
	return nil
}
