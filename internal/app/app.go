// Package app wires the services shared by the cashtrack binaries.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cashtrack/internal/apiclient"
	"github.com/MrJamesThe3rd/cashtrack/internal/auth"
	"github.com/MrJamesThe3rd/cashtrack/internal/config"
	"github.com/MrJamesThe3rd/cashtrack/internal/database"
	"github.com/MrJamesThe3rd/cashtrack/internal/export"
	cashtrackHttp "github.com/MrJamesThe3rd/cashtrack/internal/http"
	authHandler "github.com/MrJamesThe3rd/cashtrack/internal/http/auth"
	exportHandler "github.com/MrJamesThe3rd/cashtrack/internal/http/export"
	ledgerHandler "github.com/MrJamesThe3rd/cashtrack/internal/http/ledger"
	matchingHandler "github.com/MrJamesThe3rd/cashtrack/internal/http/matching"
	profileHandler "github.com/MrJamesThe3rd/cashtrack/internal/http/profile"
	resourceHandler "github.com/MrJamesThe3rd/cashtrack/internal/http/resource"
	statementHandler "github.com/MrJamesThe3rd/cashtrack/internal/http/statement"
	txHandler "github.com/MrJamesThe3rd/cashtrack/internal/http/transaction"
	"github.com/MrJamesThe3rd/cashtrack/internal/importer"
	"github.com/MrJamesThe3rd/cashtrack/internal/ledger"
	"github.com/MrJamesThe3rd/cashtrack/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/cashtrack/internal/matching/store"
	"github.com/MrJamesThe3rd/cashtrack/internal/money"
	"github.com/MrJamesThe3rd/cashtrack/internal/profile"
	"github.com/MrJamesThe3rd/cashtrack/internal/resource"
	"github.com/MrJamesThe3rd/cashtrack/internal/session"
	"github.com/MrJamesThe3rd/cashtrack/internal/snapshot"
	snapshotStore "github.com/MrJamesThe3rd/cashtrack/internal/snapshot/store"
	"github.com/MrJamesThe3rd/cashtrack/internal/state"
	"github.com/MrJamesThe3rd/cashtrack/internal/transaction"
)

type App struct {
	Config    *config.Config
	Formatter *money.Formatter

	State        *state.Store
	Session      *session.Session
	Client       *apiclient.Client
	Auth         *auth.Service
	Transactions *transaction.Service
	Profiles     *profile.Service
	Resources    *resource.Services
	Matching     *matching.Service
	Importer     *importer.Service
	Export       *export.Service

	db *sql.DB
}

// New opens the local store, loads the persisted snapshot and builds every
// service on top of it.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := database.New(cfg.Store.Driver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	kv := snapshotStore.New(db, cfg.Store.Driver)
	if err := kv.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	rules := matchingStore.New(db, cfg.Store.Driver)
	if err := rules.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	adapter := snapshot.NewAdapter(kv, cfg.Store.Key, cfg.App.Currency)
	snap := adapter.Load(ctx)

	var (
		st        = state.New(adapter, snap)
		sess      = session.New(snap.Token, st)
		client    = apiclient.New(cfg.API.BaseURL, cfg.API.Timeout, sess)
		formatter = money.NewFormatter(cfg.App.Locale)
	)

	var (
		router          = auth.NewRouter(auth.NewRemote(client), auth.NewMock(cfg.Auth.MockSecret), cfg.Auth.Mock)
		txService       = transaction.NewService(st, snap.Transactions)
		matchingService = matching.NewService(rules)
	)

	slog.Debug("state loaded", "transactions", len(snap.Transactions), "currency", snap.Currency, "authenticated", sess.Authenticated())

	return &App{
		Config:       cfg,
		Formatter:    formatter,
		State:        st,
		Session:      sess,
		Client:       client,
		Auth:         auth.NewService(router, sess, cfg.Auth.Mock),
		Transactions: txService,
		Profiles:     profile.NewService(client, st),
		Resources:    resource.NewServices(client),
		Matching:     matchingService,
		Importer:     importer.NewService(txService, importer.WithMatcher(matchingService)),
		Export:       export.NewService(txService, st, formatter),
		db:           db,
	}, nil
}

func (a *App) Close() error {
	return a.db.Close()
}

// Summary derives the ledger figures as of now.
func (a *App) Summary(now time.Time) ledger.Summary {
	return ledger.Derive(a.Transactions.All(), a.State.StartingBalances(), now)
}

// Format renders amount in the configured currency.
func (a *App) Format(amount decimal.Decimal) string {
	return a.Formatter.Format(amount, a.State.Currency())
}

// Handler builds the local JSON API.
func (a *App) Handler() http.Handler {
	return cashtrackHttp.New(cashtrackHttp.Handlers{
		Ledger:       ledgerHandler.NewHandler(a.Transactions, a.State, a.Formatter),
		Transactions: txHandler.NewHandler(a.Transactions),
		Auth:         authHandler.NewHandler(a.Auth),
		Profile:      profileHandler.NewHandler(a.Profiles, a.State),
		Import:       statementHandler.NewHandler(a.Importer),
		Matching:     matchingHandler.NewHandler(a.Matching),
		Export:       exportHandler.NewHandler(a.Export),
		Resources:    resourceHandler.NewHandler(a.Resources),
	}, a.Config.App.AllowedOrigins)
}
