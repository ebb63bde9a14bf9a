package adminauth

import (
	"log/slog"
	"time"

	httpadapter "lanvote/contexts/identity-access/admin-auth/adapters/http"
	"lanvote/contexts/identity-access/admin-auth/adapters/memory"
	"lanvote/contexts/identity-access/admin-auth/adapters/security"
	"lanvote/contexts/identity-access/admin-auth/application/commands"
	"lanvote/contexts/identity-access/admin-auth/application/queries"
	"lanvote/contexts/identity-access/admin-auth/ports"

	"golang.org/x/crypto/bcrypt"
)

type Module struct {
	Handler     httpadapter.Handler
	EnsureAdmin commands.EnsureAdminUseCase
	Store       *memory.Store
}

type Dependencies struct {
	Admins ports.AdminRepository
	Hasher ports.PasswordHasher
	Tokens ports.TokenIssuer
	Clock  ports.Clock
	Logger *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			Login: commands.LoginUseCase{
				Admins: deps.Admins,
				Hasher: deps.Hasher,
				Tokens: deps.Tokens,
				Clock:  deps.Clock,
				Logger: deps.Logger,
			},
			ChangePassword: commands.ChangePasswordUseCase{
				Admins: deps.Admins,
				Hasher: deps.Hasher,
				Clock:  deps.Clock,
				Logger: deps.Logger,
			},
			Authenticate: queries.AuthenticateUseCase{
				Admins: deps.Admins,
				Tokens: deps.Tokens,
				Clock:  deps.Clock,
			},
			Logger: deps.Logger,
		},
		EnsureAdmin: commands.EnsureAdminUseCase{
			Admins: deps.Admins,
			Hasher: deps.Hasher,
			Clock:  deps.Clock,
			Logger: deps.Logger,
		},
	}
}

// NewInMemoryModule hashes with bcrypt.MinCost.
func NewInMemoryModule(secret []byte, ttl time.Duration, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Admins: store,
		Hasher: security.BcryptHasher{Cost: bcrypt.MinCost},
		Tokens: security.JWTIssuer{Secret: secret, TTL: ttl},
		Clock:  store,
		Logger: logger,
	})
	module.Store = store
	return module
}
