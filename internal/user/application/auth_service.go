package application

import (
	"context"
	"strings"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	"github.com/davicafu/devcamper/internal/user/domain"

	"go.uber.org/zap"
)

// TokenIssuer firma y valida los tokens de sesión.
type TokenIssuer interface {
	Issue(actor sharedDomain.Actor) (string, error)
	Parse(token string) (sharedDomain.Actor, error)
}

// AuthService implementa registro, login y la autenticación de peticiones.
type AuthService struct {
	repo   domain.UserRepository
	users  *UserService
	tokens TokenIssuer
	log    *zap.Logger
}

func NewAuthService(repo domain.UserRepository, users *UserService, tokens TokenIssuer, log *zap.Logger) *AuthService {
	return &AuthService{repo: repo, users: users, tokens: tokens, log: log}
}

// Register crea una cuenta pública; sólo se admiten los roles user y publisher.
func (s *AuthService) Register(ctx context.Context, name, email, password string, role sharedDomain.Role) (*domain.User, string, error) {
	if role == sharedDomain.RoleAdmin {
		return nil, "", sharedDomain.ValidationError{Fields: map[string]string{"role": "must be one of [user publisher]"}}
	}
	user, err := s.users.CreateUser(ctx, name, email, password, role)
	if err != nil {
		return nil, "", err
	}
	token, err := s.tokens.Issue(user.Actor())
	if err != nil {
		return nil, "", err
	}
	s.log.Info("User registered", zap.String("user_id", user.ID.String()), zap.String("role", string(user.Role)))
	return user, token, nil
}

// Login valida las credenciales. Usuario inexistente y contraseña errónea dan el mismo error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, "", sharedDomain.ValidationError{Msg: "please provide an email and password"}
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if sharedDomain.IsNotFound(err) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !user.MatchPassword(password) {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Actor())
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Me devuelve el usuario autenticado.
func (s *AuthService) Me(ctx context.Context, actor sharedDomain.Actor) (*domain.User, error) {
	return s.users.GetUser(ctx, actor.ID)
}

// UpdateDetails cambia nombre y email del propio usuario.
func (s *AuthService) UpdateDetails(ctx context.Context, actor sharedDomain.Actor, name, email *string) (*domain.User, error) {
	return s.users.UpdateUser(ctx, actor.ID, UserPatch{Name: name, Email: email})
}

// UpdatePassword exige la contraseña actual y devuelve un token nuevo.
func (s *AuthService) UpdatePassword(ctx context.Context, actor sharedDomain.Actor, current, next string) (string, error) {
	user, err := s.repo.GetByID(ctx, actor.ID)
	if err != nil {
		return "", err
	}
	if !user.MatchPassword(current) {
		return "", sharedDomain.UnauthorizedError{Msg: "password is incorrect"}
	}
	if _, err := s.users.UpdateUser(ctx, actor.ID, UserPatch{Password: &next}); err != nil {
		return "", err
	}
	return s.tokens.Issue(user.Actor())
}

// Authenticate implementa middleware.Authenticator: el token debe ser válido y el
// usuario seguir existiendo. El rol se toma del usuario, no del token.
func (s *AuthService) Authenticate(ctx context.Context, token string) (sharedDomain.Actor, error) {
	claimed, err := s.tokens.Parse(token)
	if err != nil {
		return sharedDomain.Actor{}, sharedDomain.UnauthorizedError{}
	}
	user, err := s.users.GetUser(ctx, claimed.ID)
	if err != nil {
		if sharedDomain.IsNotFound(err) {
			return sharedDomain.Actor{}, sharedDomain.UnauthorizedError{}
		}
		return sharedDomain.Actor{}, err
	}
	return user.Actor(), nil
}
