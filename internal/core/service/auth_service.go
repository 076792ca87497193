package service

import (
	"context"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/nexerp/authgate/internal/authstate"
	"github.com/nexerp/authgate/internal/core/domain"
	"github.com/nexerp/authgate/internal/core/ports"
	"github.com/nexerp/authgate/internal/session"
)

// AuthService implements registration, login, and the session lifecycle.
// Tokens are minted and verified here, at the trust boundary; the gating
// layer downstream only decodes them.
type AuthService struct {
	repo      ports.UserRepository
	sessions  *session.Store
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, sessions *session.Store, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, sessions: sessions, jwtSecret: jwtSecret, tokenTTL: tokenTTL, log: log}
}

// Register creates a new user account. Every requested role code must
// belong to the known enumeration: registration is a write path, so unlike
// the read-side resolver it rejects unknown codes instead of dropping them.
func (s *AuthService) Register(ctx context.Context, username, password, fullName, email string, roles []string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	assigned := make([]domain.Role, 0, len(roles))
	for _, r := range roles {
		code := domain.RoleCode(r)
		if !code.IsKnown() {
			return nil, domain.ErrInvalidCredentials
		}
		assigned = append(assigned, domain.Role{Code: code, Name: roleLabel(code)})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     username,
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hash),
		Roles:        assigned,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	return s.repo.Create(ctx, user)
}

// Login authenticates the user, mints a signed token, and persists the
// session pair: token first, then the credential snapshot through the auth
// state container. The mirrored cookie is the handler's job.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	tok, err := s.mintToken(user)
	if err != nil {
		return "", nil, err
	}

	sid := sessionID(user)
	s.sessions.SetToken(ctx, sid, tok)
	s.state(sid).SetCredentials(ctx, user)

	return tok, user, nil
}

// Session returns the identity behind a restored session, or
// ErrNotAuthenticated when the persisted pair is incomplete.
func (s *AuthService) Session(ctx context.Context, sid string) (*domain.User, error) {
	state := s.state(sid)
	state.RestoreAuth(ctx)
	snap := state.Snapshot()
	if !snap.IsAuthenticated {
		return nil, domain.ErrNotAuthenticated
	}
	return snap.User, nil
}

// UpdateProfile merges the patch into the stored account and the live
// session record.
func (s *AuthService) UpdateProfile(ctx context.Context, sid string, patch domain.UserPatch) (*domain.User, error) {
	state := s.state(sid)
	state.RestoreAuth(ctx)
	snap := state.Snapshot()
	if !snap.IsAuthenticated {
		return nil, domain.ErrNotAuthenticated
	}

	// Merge onto the repository copy: the session snapshot does not carry
	// the password hash, and a replace based on it would erase it.
	current, err := s.repo.FindByID(ctx, snap.User.ID)
	if err != nil {
		return nil, err
	}
	merged := patch.Apply(*current)
	merged.UpdatedAt = time.Now().UTC()
	updated, err := s.repo.Update(ctx, &merged)
	if err != nil {
		return nil, err
	}

	state.UpdateUser(ctx, patch)
	return updated, nil
}

// Logout clears the session state and its persisted records. The presented
// token must match the one persisted for the session: the subject claim is
// read from an unverified decode, so an attacker-minted token naming
// someone else's sid must not destroy that session.
func (s *AuthService) Logout(ctx context.Context, sid, tok string) error {
	stored, ok := s.sessions.Token(ctx, sid)
	if !ok || stored != tok {
		s.log.Debug().Str("sid", sid).Msg("logout token does not match persisted session")
		return nil
	}
	s.state(sid).Logout(ctx)
	return nil
}

func (s *AuthService) state(sid string) *authstate.Store {
	return authstate.New(s.sessions, sid, s.log)
}

func (s *AuthService) mintToken(user *domain.User) (string, error) {
	codes := make([]string, 0, len(user.Roles))
	for _, r := range user.Roles {
		codes = append(codes, string(r.Code))
	}
	claims := jwt.MapClaims{
		"sub":      sessionID(user),
		"username": user.Username,
		"roles":    codes,
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// sessionID keys the persisted session records by user identity.
func sessionID(user *domain.User) string {
	return strconv.FormatInt(user.ID, 10)
}

func roleLabel(code domain.RoleCode) string {
	switch code {
	case domain.RoleManager:
		return "Manager"
	case domain.RoleContentAdmin:
		return "Content Admin"
	case domain.RoleEmployee:
		return "Employee"
	case domain.RoleAccountant:
		return "Accountant"
	case domain.RoleDepartmentHead:
		return "Department Head"
	default:
		return string(code)
	}
}
