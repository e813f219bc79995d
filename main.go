package main

import (
	"github.com/ruei-yu/activity-checkin-points/config"
	"github.com/ruei-yu/activity-checkin-points/ledger"
	"github.com/ruei-yu/activity-checkin-points/models"
	"github.com/ruei-yu/activity-checkin-points/points"
	"github.com/ruei-yu/activity-checkin-points/routes"
	"github.com/ruei-yu/activity-checkin-points/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	// Category/reward tables were validated during config.Load
	catalog, err := points.NewCatalog(cfg.Categories)
	if err != nil {
		utils.Sugar.Fatalf("invalid category table: %v", err)
	}

	var store ledger.Store
	switch cfg.LedgerBackend {
	case "mysql":
		db := config.InitDatabase(&models.CheckinRecord{})
		store = ledger.NewGormStore(db)
		utils.Sugar.Infof("ledger backend: mysql (%s)", cfg.DBName)
	default:
		csvStore, err := ledger.NewCSVStore(cfg.LedgerCSVPath)
		if err != nil {
			utils.Sugar.Fatalf("open csv ledger: %v", err)
		}
		store = csvStore
		utils.Sugar.Infof("ledger backend: csv (%s)", cfg.LedgerCSVPath)
	}

	r := routes.SetupRouter(ledger.New(store), catalog)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
