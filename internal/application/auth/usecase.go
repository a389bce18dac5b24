package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/activos-ti-api/internal/application/dto"
	"github.com/jhoicas/activos-ti-api/internal/application/validation"
	"github.com/jhoicas/activos-ti-api/internal/domain"
	"github.com/jhoicas/activos-ti-api/internal/domain/entity"
	"github.com/jhoicas/activos-ti-api/internal/domain/repository"
	"github.com/jhoicas/activos-ti-api/pkg/jwt"
	"github.com/jhoicas/activos-ti-api/pkg/logger"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// Session sesión autenticada derivada de un token válido y no revocado.
type Session struct {
	ID        string // jti
	UserID    string
	ExpiresAt time.Time
}

// AuthUseCase casos de uso de autenticación: login, logout y resolución de sesión.
type AuthUseCase struct {
	userRepo repository.UserRepository
	recorder EventRecorder
	revoker  TokenRevoker
	jwtCfg   JWTConfig
	log      *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	userRepo repository.UserRepository,
	recorder EventRecorder,
	revoker TokenRevoker,
	jwtCfg JWTConfig,
	log *logger.Logger,
) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, recorder: recorder, revoker: revoker, jwtCfg: jwtCfg, log: log.Component("auth")}
}

// NormalizeEmail forma canónica con la que se guardan y buscan los emails.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login verifica email/password, genera el JWT y registra el evento (éxito o fallo) con su origen.
// Un usuario inactivo con password correcto recibe ErrInactiveUser y no obtiene sesión.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest, source string) (*dto.LoginResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	email := NormalizeEmail(in.Email)
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		actorID := ""
		if user != nil {
			actorID = user.ID
		}
		if err := uc.record(ctx, actorID, email, entity.LoginFailure, source, "credenciales inválidas"); err != nil {
			return nil, err
		}
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		if err := uc.record(ctx, user.ID, email, entity.LoginFailure, source, "usuario inactivo"); err != nil {
			return nil, err
		}
		return nil, domain.ErrInactiveUser
	}

	tok, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, string(user.Role), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	if err := uc.record(ctx, user.ID, email, entity.LoginSuccess, source, ""); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("source", source).Msg("login")
	return &dto.LoginResponse{
		Token:     tok.Value,
		ExpiresAt: tok.ExpiresAt,
		User:      *ToUserResponse(user),
	}, nil
}

// Logout revoca el token hasta su expiración y registra el evento.
func (uc *AuthUseCase) Logout(ctx context.Context, session *Session, actor *entity.User, source string) error {
	if session == nil {
		return domain.ErrUnauthenticated
	}
	if err := uc.revoker.Revoke(ctx, session.ID, session.ExpiresAt); err != nil {
		return err
	}
	email := ""
	if actor != nil {
		email = actor.Email
	}
	return uc.record(ctx, session.UserID, email, entity.Logout, source, "")
}

// Resolve valida el token y carga al actor desde el almacenamiento en cada llamada,
// de modo que un cambio de rol o una desactivación surten efecto de inmediato.
// Devuelve al actor aunque esté inactivo: la política lo deniega después.
func (uc *AuthUseCase) Resolve(ctx context.Context, token string) (*Session, *entity.User, error) {
	claims, err := jwt.Parse(uc.jwtCfg.Secret, token)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}
	revoked, err := uc.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, nil, err
	}
	if revoked {
		return nil, nil, fmt.Errorf("%w: sesión cerrada", domain.ErrUnauthenticated)
	}
	user, err := uc.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, fmt.Errorf("%w: usuario inexistente", domain.ErrUnauthenticated)
	}
	return &Session{ID: claims.ID, UserID: claims.UserID, ExpiresAt: claims.ExpiresAtTime()}, user, nil
}

func (uc *AuthUseCase) record(ctx context.Context, actorID, email, event, source, note string) error {
	_, err := uc.recorder.Record(ctx, &entity.AuditEntry{
		EntityKind: entity.KindLogin,
		ActorID:    actorID,
		Email:      email,
		Event:      event,
		Accepted:   event != entity.LoginFailure,
		Source:     source,
		Note:       note,
	})
	if err != nil && !errors.Is(err, domain.ErrStorageUnavailable) {
		uc.log.Error().Err(err).Str("event", event).Msg("no se pudo registrar el evento de autenticación")
	}
	return err
}

// ToUserResponse proyección de un usuario para el cable (nunca incluye el hash).
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:           u.ID,
		WorkerID:     u.WorkerID,
		Email:        u.Email,
		Role:         string(u.Role),
		LegacyRoleID: u.Role.LegacyID(),
		IsActive:     u.IsActive,
		FullName:     u.FullName,
		Department:   u.Department,
		Position:     u.Position,
		Gender:       u.Gender,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
