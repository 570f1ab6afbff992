package main

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/rogerio-castellano/steel-quoter/internal/config"
	"github.com/rogerio-castellano/steel-quoter/internal/db"
	"github.com/rogerio-castellano/steel-quoter/internal/logging"
	"github.com/rogerio-castellano/steel-quoter/internal/repo"
	"github.com/rogerio-castellano/steel-quoter/internal/service"
)

// openService connects to the configured database the same way the API does.
func openService(ctx context.Context) (*service.Service, *sqlx.DB, logrus.FieldLogger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	log := logging.New(cfg.Log.Level, cfg.Log.Format)

	database, err := db.Open(ctx, db.Options{
		Driver: cfg.Database.Driver,
		URL:    cfg.Database.URL,
		Path:   cfg.Database.Path,
	})
	if err != nil {
		return nil, nil, nil, err
	}

	svc := service.New(service.Repos{
		Customers:   repo.NewSQLCustomerRepository(database),
		Materials:   repo.NewSQLMaterialRepository(database),
		Quotes:      repo.NewSQLQuoteRepository(database),
		BOM:         repo.NewSQLBOMRepository(database),
		Events:      repo.NewSQLQuoteEventRepository(database),
		SalesOrders: repo.NewSQLSalesOrderRepository(database),
		APIKeys:     repo.NewSQLAPIKeyRepository(database),
	}, log, service.WithDefaultValidDays(cfg.Quotes.DefaultValidDays))
	return svc, database, log, nil
}
