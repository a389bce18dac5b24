package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/activos-ti-api/internal/application/auth"
	"github.com/jhoicas/activos-ti-api/internal/application/dto"
	"github.com/jhoicas/activos-ti-api/internal/application/validation"
	"github.com/jhoicas/activos-ti-api/internal/domain"
	"github.com/jhoicas/activos-ti-api/internal/domain/entity"
	"github.com/jhoicas/activos-ti-api/internal/domain/policy"
	"github.com/jhoicas/activos-ti-api/internal/domain/repository"
)

// UserUseCase aplica reglas de negocio para usuarios.
type UserUseCase struct {
	repo        repository.UserRepository
	catalogRepo repository.CatalogRepository
}

// NewUserUseCase construye el caso de uso con los puertos de persistencia.
func NewUserUseCase(repo repository.UserRepository, catalogRepo repository.CatalogRepository) *UserUseCase {
	return &UserUseCase{repo: repo, catalogRepo: catalogRepo}
}

// Create da de alta un usuario (solo admin). El password se guarda como hash bcrypt.
func (uc *UserUseCase) Create(ctx context.Context, actor *entity.User, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if _, err := policy.Authorize(actor, policy.ActionCreate, policy.ResourceUser); err != nil {
		return nil, err
	}
	in = in.Trimmed()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	role, err := resolveRole(optional(in.Role), in.LegacyRoleID)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, validation.Field("role", "required")
	}
	if err := uc.checkCatalog(ctx, &in.Department, optional(in.Position), optional(in.Gender)); err != nil {
		return nil, err
	}
	email := auth.NormalizeEmail(in.Email)
	existing, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	user := &entity.User{
		ID:           uuid.New().String(),
		WorkerID:     in.WorkerID,
		Email:        email,
		PasswordHash: string(hash),
		Role:         *role,
		IsActive:     true,
		FullName:     in.FullName,
		Department:   in.Department,
		Position:     in.Position,
		Gender:       in.Gender,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return auth.ToUserResponse(user), nil
}

// GetByID obtiene un usuario. Cualquier usuario activo puede leerse a sí mismo.
func (uc *UserUseCase) GetByID(ctx context.Context, actor *entity.User, id string) (*dto.UserResponse, error) {
	if actor == nil || actor.ID != id || !actor.IsActive {
		if _, err := policy.Authorize(actor, policy.ActionRead, policy.ResourceUser); err != nil {
			return nil, err
		}
	}
	user, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return auth.ToUserResponse(user), nil
}

// List pagina los usuarios según el filtro.
func (uc *UserUseCase) List(ctx context.Context, actor *entity.User, q dto.UserListQuery, page dto.PageRequest) (*dto.ListResponse[dto.UserResponse], error) {
	if _, err := policy.Authorize(actor, policy.ActionRead, policy.ResourceUser); err != nil {
		return nil, err
	}
	if err := validation.Struct(q); err != nil {
		return nil, err
	}
	if err := validation.Struct(page); err != nil {
		return nil, err
	}
	filter := repository.UserFilter{Role: entity.Role(q.Role), Active: q.Active, Department: q.Department}
	list, total, err := uc.repo.List(ctx, filter, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *auth.ToUserResponse(u))
	}
	return dto.NewListResponse(items, total, page), nil
}

// Update cambios administrativos (solo admin). Un administrador no puede quitarse
// a sí mismo el rol ni desactivarse, para no dejar el sistema sin administradores.
func (uc *UserUseCase) Update(ctx context.Context, actor *entity.User, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if _, err := policy.Authorize(actor, policy.ActionUpdate, policy.ResourceUser); err != nil {
		return nil, err
	}
	in = in.Trimmed()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	role, err := resolveRole(in.Role, in.LegacyRoleID)
	if err != nil {
		return nil, err
	}
	user, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.ID == id {
		if role != nil && *role != entity.RoleAdmin {
			return nil, fmt.Errorf("%w: un administrador no puede quitarse el rol", domain.ErrConflict)
		}
		if in.IsActive != nil && !*in.IsActive {
			return nil, fmt.Errorf("%w: un administrador no puede desactivarse", domain.ErrConflict)
		}
	}
	if err := uc.checkCatalog(ctx, in.Department, in.Position, in.Gender); err != nil {
		return nil, err
	}
	if role != nil {
		user.Role = *role
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	if in.FullName != nil {
		user.FullName = *in.FullName
	}
	if in.Department != nil {
		user.Department = *in.Department
	}
	if in.Position != nil {
		user.Position = *in.Position
	}
	if in.Gender != nil {
		user.Gender = *in.Gender
	}
	user.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return auth.ToUserResponse(user), nil
}

// Deactivate baja lógica: los usuarios nunca se eliminan para no romper el historial.
func (uc *UserUseCase) Deactivate(ctx context.Context, actor *entity.User, id string) (*dto.UserResponse, error) {
	inactive := false
	return uc.Update(ctx, actor, id, dto.UpdateUserRequest{IsActive: &inactive})
}

// UpdateSelf permite al usuario cambiar su nombre y su password.
// El cambio de password exige el password actual.
func (uc *UserUseCase) UpdateSelf(ctx context.Context, actor *entity.User, in dto.UpdateSelfRequest) (*dto.UserResponse, error) {
	if actor == nil || !actor.IsActive {
		return nil, fmt.Errorf("%w: usuario inactivo", domain.ErrForbidden)
	}
	in = in.Trimmed()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	user, err := uc.load(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if in.FullName != nil {
		user.FullName = *in.FullName
	}
	if in.NewPassword != "" {
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)) != nil {
			return nil, domain.ErrInvalidCredentials
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	user.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return auth.ToUserResponse(user), nil
}

// EnsureAdmin crea un administrador si el email aún no existe. Lo usa el arranque
// para que una instalación vacía tenga con qué iniciar sesión.
func (uc *UserUseCase) EnsureAdmin(ctx context.Context, email, password, department string) (bool, error) {
	if err := validation.Var("password", password, "min=8,maxbytes=72"); err != nil {
		return false, err
	}
	email = auth.NormalizeEmail(email)
	existing, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	now := time.Now().UTC()
	return true, uc.repo.Create(ctx, &entity.User{
		ID:           uuid.New().String(),
		WorkerID:     "bootstrap",
		Email:        email,
		PasswordHash: string(hash),
		Role:         entity.RoleAdmin,
		IsActive:     true,
		FullName:     "Administrador",
		Department:   department,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

func (uc *UserUseCase) load(ctx context.Context, id string) (*entity.User, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: usuario %s", domain.ErrNotFound, id)
	}
	return user, nil
}

// checkCatalog valida contra el catálogo los códigos presentes (nil o vacío no se valida,
// salvo department que siempre es obligatorio cuando viene).
func (uc *UserUseCase) checkCatalog(ctx context.Context, department, position, gender *string) error {
	if department == nil && position == nil && gender == nil {
		return nil
	}
	cat, err := uc.catalogRepo.Get(ctx)
	if err != nil {
		return err
	}
	if department != nil && !entity.Has(cat.Departments, *department) {
		return validation.Field("department", "catalog")
	}
	if position != nil && *position != "" && !entity.Has(cat.Positions, *position) {
		return validation.Field("position", "catalog")
	}
	if gender != nil && *gender != "" && !entity.Has(cat.Genders, *gender) {
		return validation.Field("gender", "catalog")
	}
	return nil
}

// resolveRole acepta el rol por nombre, por ID heredado o ambos si coinciden.
// Devuelve nil si no viene ninguno.
func resolveRole(name *string, legacyID *int) (*entity.Role, error) {
	var role *entity.Role
	if legacyID != nil {
		r, err := entity.RoleFromLegacyID(*legacyID)
		if err != nil {
			return nil, validation.Field("legacy_role_id", "oneof=1 2 3 4")
		}
		role = &r
	}
	if name == nil {
		return role, nil
	}
	r, err := entity.ParseRole(*name)
	if err != nil {
		return nil, validation.Field("role", "oneof=admin manager technician user")
	}
	if role != nil && *role != r {
		return nil, validation.Field("legacy_role_id", "eqfield=role")
	}
	return &r, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
