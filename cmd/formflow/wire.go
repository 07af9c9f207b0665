package main

import (
	"errors"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/formflow/internal/adapters/driven/config/file"
	"github.com/custodia-labs/formflow/internal/adapters/driven/mailchimp"
	"github.com/custodia-labs/formflow/internal/adapters/driven/recaptcha"
	"github.com/custodia-labs/formflow/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/formflow/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/formflow/internal/adapters/driving/cli"
	"github.com/custodia-labs/formflow/internal/core/domain"
	"github.com/custodia-labs/formflow/internal/core/fields"
	"github.com/custodia-labs/formflow/internal/core/ports/driven"
	"github.com/custodia-labs/formflow/internal/core/services"
	"github.com/custodia-labs/formflow/internal/logger"
)

// dataDirName is the default database directory under the formflow home.
const dataDirName = "data"

// application holds the wired services and the resources to release.
type application struct {
	services cli.Services
	factory  *services.IndexFactory

	mu     sync.Mutex
	sqlite *sqlite.Store
}

// wire builds every adapter and service. home is the formflow directory;
// empty selects ~/.formflow.
func wire(home string) (*application, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("loading .env: %v", err)
	}

	configStore, err := file.NewConfigStore(home)
	if err != nil {
		return nil, err
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, err
	}

	formsDir, dataDir := "", settings.Index.DataDir
	if home != "" {
		formsDir = filepath.Join(home, file.FormsDirName)
		if dataDir == "" {
			dataDir = filepath.Join(home, dataDirName)
		}
	}
	formStore, err := file.NewFormStore(formsDir)
	if err != nil {
		return nil, err
	}

	app := &application{}

	memIndexes := memory.NewIndexStore()
	app.factory = services.NewIndexFactory(settings.Index.Type, memIndexes.Index)
	app.factory.Register(domain.IndexTypeSQLite, app.sqliteBuilder(dataDir))
	if err := app.factory.Validate(); err != nil {
		logger.Warn("%v; submissions will be kept in memory", err)
	}

	env := fields.Env{
		ReCaptcha: settings.ReCaptcha,
		Verifier:  recaptcha.NewVerifier(recaptcha.WithTimeout(settings.ReCaptcha.Timeout)),
	}
	if settings.MailChimp.IsConfigured() {
		client, err := mailchimp.NewClient(settings.MailChimp.APIKey)
		if err != nil {
			logger.Warn("newsletter subscriptions disabled: %v", err)
		} else {
			env.Subscriber = client
		}
	}
	registry := fields.NewRegistry(env)

	app.services = cli.Services{
		Submission: services.NewSubmissionService(formStore, app.factory, registry, nil),
		Entries:    services.NewEntryService(formStore, app.factory, registry),
		Forms:      services.NewFormService(formStore, registry, nil),
		Settings:   settingsService,
		WatchForms: formStore.Watch,
	}
	return app, nil
}

// sqliteBuilder opens the database on first use so commands that never
// touch submissions do not create it.
func (a *application) sqliteBuilder(dataDir string) driven.IndexBuilder {
	return func(contentID string) (driven.Index, error) {
		a.mu.Lock()
		defer a.mu.Unlock()
		if a.sqlite == nil {
			store, err := sqlite.NewStore(dataDir)
			if err != nil {
				return nil, err
			}
			a.sqlite = store
		}
		return a.sqlite.Index(contentID)
	}
}

// Close releases the database if one was opened.
func (a *application) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.sqlite == nil {
		return
	}
	if err := a.sqlite.Close(); err != nil {
		logger.Warn("closing database: %v", err)
	}
	a.sqlite = nil
}
