package container

import (
	"database/sql"
	"fmt"

	"github.com/garyjia/backoffice-console/internal/application/dispatcher"
	"github.com/garyjia/backoffice-console/internal/application/port"
	"github.com/garyjia/backoffice-console/internal/application/service"
	"github.com/garyjia/backoffice-console/internal/infrastructure/persistence/repository"
	"github.com/garyjia/backoffice-console/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/backoffice-console/internal/infrastructure/storage"
	"github.com/garyjia/backoffice-console/internal/infrastructure/worker"
	"github.com/garyjia/backoffice-console/migrations"
	"github.com/garyjia/backoffice-console/pkg/database"
	"go.uber.org/zap"
)

// DatabaseBundle holds database-related components.
type DatabaseBundle struct {
	SqlDB          *sql.DB
	TransactionMgr *sqlite.DB
}

// StorageBundle holds storage-related components.
type StorageBundle struct {
	FileStorage port.FileStorage
	Inspector   port.ImageInspector
}

// ProvideDatabase opens the database and runs pending migrations.
// The embedded migrations are used unless cfg.MigrationsDir is set.
func ProvideDatabase(cfg *DatabaseConfig, logger *zap.Logger) (*DatabaseBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	db, err := database.New(database.Config{
		Path:            cfg.Path,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, err
	}

	migrator := database.NewMigrator(db, logger)
	if cfg.MigrationsDir != "" {
		err = migrator.RunMigrations(cfg.MigrationsDir)
	} else {
		err = migrator.RunMigrationsFS(migrations.FS)
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &DatabaseBundle{
		SqlDB:          db.DB,
		TransactionMgr: sqlite.NewDB(db.DB, logger),
	}, nil
}

// ProvideRepositories creates all repositories from a database connection.
func ProvideRepositories(sqlDB *sql.DB, logger *zap.Logger) (*RepositoryBundle, error) {
	if sqlDB == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &RepositoryBundle{
		Employee:       repository.NewEmployeeRepository(sqlDB, logger),
		History:        repository.NewHistoryRepository(sqlDB, logger),
		Checklist:      repository.NewChecklistRepository(sqlDB, logger),
		Template:       repository.NewTemplateRepository(sqlDB, logger),
		Wizard:         repository.NewWizardRepository(sqlDB, logger),
		Agency:         repository.NewAgencyRepository(sqlDB, logger),
		GeneralContact: repository.NewGeneralContactRepository(sqlDB, logger),
		Bank:           repository.NewBankRepository(sqlDB, logger),
		BankAccount:    repository.NewBankAccountRepository(sqlDB, logger),
		Asset:          repository.NewAssetRepository(sqlDB, logger),
		Stats:          repository.NewStatsRepository(sqlDB, logger),
	}, nil
}

// ProvideStorage creates the asset storage and image inspector.
func ProvideStorage(cfg *StorageConfig, logger *zap.Logger) (*StorageBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("storage config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &StorageBundle{
		FileStorage: storage.NewLocalFileStorage(cfg.AssetDir, logger),
		Inspector:   storage.NewImageInspector(),
	}, nil
}

// ProvideDispatcher creates the event dispatcher.
func ProvideDispatcher(logger *zap.Logger) (dispatcher.Dispatcher, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return dispatcher.NewDispatcher(
		dispatcher.WithLogger(&zapLoggerAdapter{logger: logger}),
	), nil
}

// ServiceDeps holds dependencies required for creating services.
type ServiceDeps struct {
	Repos     *RepositoryBundle
	Storage   *StorageBundle
	TxManager port.TransactionManager
	Publisher port.EventPublisher
	Sessions  *service.SessionStore
	Session   *SessionConfig
	Logger    *zap.Logger
}

// ProvideServices creates all application services.
func ProvideServices(deps *ServiceDeps) (*ServiceBundle, error) {
	if deps == nil {
		return nil, fmt.Errorf("service dependencies are required")
	}
	if deps.Repos == nil {
		return nil, fmt.Errorf("repositories are required")
	}
	if deps.Storage == nil {
		return nil, fmt.Errorf("storage is required")
	}
	if deps.TxManager == nil {
		return nil, fmt.Errorf("transaction manager is required")
	}
	if deps.Publisher == nil {
		return nil, fmt.Errorf("event publisher is required")
	}
	if deps.Sessions == nil || deps.Session == nil {
		return nil, fmt.Errorf("session store and config are required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	serviceLogger := &zapLoggerAdapter{logger: deps.Logger}
	repos := deps.Repos

	checklists := service.NewChecklistService(
		repos.Checklist,
		repos.Employee,
		repos.History,
		repos.Template,
		deps.TxManager,
		deps.Publisher,
		deps.Sessions,
		service.ChecklistOptions{
			AtomicFinal:        deps.Session.AtomicFinal,
			LegacyNameMatching: deps.Session.LegacyNameMatching,
		},
		serviceLogger,
	)
	banks := service.NewBankService(repos.Bank, repos.BankAccount, deps.TxManager, serviceLogger)

	return &ServiceBundle{
		Employees: service.NewEmployeeService(
			repos.Employee,
			repos.History,
			repos.Checklist,
			deps.TxManager,
			deps.Publisher,
			serviceLogger,
		),
		Checklists: checklists,
		Templates:  service.NewTemplateService(repos.Template, deps.TxManager, serviceLogger),
		Wizard:     service.NewWizardService(repos.Wizard, serviceLogger),
		Directory: service.NewDirectoryService(
			repos.Agency,
			repos.GeneralContact,
			deps.TxManager,
			serviceLogger,
		),
		Banks: banks,
		Assets: service.NewAssetService(
			repos.Asset,
			deps.Storage.FileStorage,
			deps.Storage.Inspector,
			serviceLogger,
		),
		Dashboard: service.NewDashboardService(repos.Stats, deps.Sessions),
		Export:    service.NewExportService(checklists, banks, serviceLogger),
	}, nil
}

// WorkerDeps holds dependencies required for creating workers.
type WorkerDeps struct {
	Sessions *service.SessionStore
	Wizard   service.WizardService
	Session  *SessionConfig
	Logger   *zap.Logger
}

// ProvideWorkers creates the worker manager with all background workers registered.
func ProvideWorkers(deps *WorkerDeps) (*worker.Manager, error) {
	if deps == nil {
		return nil, fmt.Errorf("worker dependencies are required")
	}
	if deps.Sessions == nil || deps.Wizard == nil || deps.Session == nil {
		return nil, fmt.Errorf("sessions, wizard service and session config are required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	manager := worker.NewManager(deps.Logger)
	manager.Register(worker.NewSessionJanitor(
		worker.JanitorConfig{
			Schedule:   deps.Session.JanitorSchedule,
			SessionTTL: deps.Session.IdleTTL,
			WizardTTL:  deps.Session.WizardTTL,
		},
		deps.Sessions,
		deps.Wizard,
		deps.Logger,
	))

	return manager, nil
}
