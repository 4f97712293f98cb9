package cli

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"zonetrack/internal/auth"
	"zonetrack/internal/config"
	"zonetrack/internal/db"
	"zonetrack/internal/logger"
	"zonetrack/internal/qr"
	"zonetrack/internal/repository"
	"zonetrack/internal/services/workspace"
)

// app is the process wiring shared by every command.
type app struct {
	cfg    *config.Config
	lg     *zap.SugaredLogger
	db     *gorm.DB
	issuer *auth.Issuer
	svc    *workspace.Service
}

func bootstrap(migrate bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	lg := logger.New(cfg.LogLevel)
	gdb, err := db.Open(cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		return nil, err
	}
	if migrate {
		if err := db.Migrate(gdb); err != nil {
			_ = db.Close(gdb)
			return nil, err
		}
	}
	a := &app{cfg: cfg, lg: lg, db: gdb, issuer: auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)}
	a.svc = newService(gdb, a.issuer, cfg.Mirror.Attempts, lg)
	return a, nil
}

func newService(gdb *gorm.DB, issuer *auth.Issuer, attempts int, lg *zap.SugaredLogger) *workspace.Service {
	return workspace.New(workspace.Deps{
		Clients:  repository.NewClientRepository(gdb),
		Users:    repository.NewUserRepository(gdb),
		Pending:  repository.NewPendingRepository(gdb),
		Audit:    repository.NewAuditRepository(gdb),
		Sessions: repository.NewSessionRepository(gdb),
		Issuer:   issuer,
		QR:       qr.PNG{},
		Attempts: attempts,
		Log:      lg,
	})
}

func (a *app) close() {
	if err := db.Close(a.db); err != nil {
		a.lg.Warnw("db close failed", "error", err)
	}
	_ = a.lg.Sync()
}
