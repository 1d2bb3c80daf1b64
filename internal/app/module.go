package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/bazaar/internal/account"
	"github.com/shandysiswandi/bazaar/internal/notification"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.account.enabled") {
		if err := account.New(account.Dependency{
			DBConn:     a.dbConn,
			CacheConn:  a.cacheConn,
			Mail:       a.mail,
			Messaging:  a.messaging,
			Router:     a.router,
			Config:     a.config,
			Instrument: a.ins,
			UID:        a.uid,
			Clock:      a.clock,
			Validator:  a.validator,
			JWT:        a.jwt,
			Password:   a.passwordHash,
			CodeHash:   a.codeHash,
		}); err != nil {
			slog.Error("failed to init module account", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.notification.enabled") {
		if err := notification.New(a.ctx, notification.Dependency{
			Messaging:  a.messaging,
			Config:     a.config,
			Instrument: a.ins,
			Clock:      a.clock,
			Goroutine:  a.goroutine,
			Validator:  a.validator,
			Mail:       a.mail,
		}); err != nil {
			slog.Error("failed to init module notification", "error", err)
			os.Exit(1)
		}
	}
}
