package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/riha-rota/riha-rota/internal/config"
	"github.com/riha-rota/riha-rota/pkg/clients/sheetsclient"
	"github.com/riha-rota/riha-rota/pkg/db"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg      *config.Config
	Database db.Database
	Logger   *zap.Logger
	Ctx      context.Context
	Env      string

	sheetsClient *sheetsclient.Client
}

// SheetsClient returns the Sheets client, authenticating on first use.
// Commands that never touch a spreadsheet run without OAuth.
func (a *AppContext) SheetsClient() (*sheetsclient.Client, error) {
	if a.sheetsClient != nil {
		return a.sheetsClient, nil
	}

	a.Logger.Info("Loading OAuth client configuration")
	oauthCfg, err := config.LoadOAuthClient(a.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to load OAuth client config: %w", err)
	}

	a.Logger.Info("Initializing sheets client")
	client, err := sheetsclient.NewClient(a.Ctx, oauthCfg, a.Env, a.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	a.sheetsClient = client
	return client, nil
}
