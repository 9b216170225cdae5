// Command seed loads a small demo data set: a product catalog covering
// each kind, a handful of customers and drivers, and one partner agency.
// Intended for local development against a fresh database.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/recharge-travels/service-booking/internal/config"
	"github.com/recharge-travels/service-booking/internal/domain/catalog"
	"github.com/recharge-travels/service-booking/internal/repository"
	"github.com/recharge-travels/service-booking/pkg/database"
	"github.com/recharge-travels/service-booking/pkg/logger"
)

type seedProduct struct {
	name        string
	kind        catalog.ProductKind
	groupKey    string
	priceCents  int64
	maxCapacity int
	description string
}

var seedProducts = []seedProduct{
	{"Galle Face Hotel Deluxe Room", catalog.KindHotelRoom, "Colombo", 18500, 4, "Ocean-view deluxe room, breakfast included"},
	{"Temple of the Tooth Day Tour", catalog.KindTour, "Kandy", 7500, 12, "Guided day tour of Kandy's sacred sites"},
	{"Sigiriya Rock Fortress Tour", catalog.KindTour, "Sigiriya", 9500, 10, "Sunrise climb with licensed guide"},
	{"Ella Scenic Train and Trek", catalog.KindTour, "Ella", 8200, 8, "Nine Arches Bridge walk and Little Adam's Peak"},
	{"Galle Fort Heritage Walk", catalog.KindTour, "Galle", 4500, 15, "Dutch fort ramparts and lighthouse walk"},
	{"Mirissa Whale Watching", catalog.KindTour, "Mirissa", 6800, 20, "Morning blue whale and dolphin cruise"},
	{"Airport Transfer Van", catalog.KindVehicle, "Colombo", 5500, 8, "Private van, airport to city hotels"},
	{"Hill Country Private Car", catalog.KindVehicle, "Kandy", 12000, 4, "Two-day private car with driver"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewNamed(cfg.AppEnv, "seed")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	db, err := database.Connect(cfg.DB.DSN(), log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&repository.BookingModel{},
		&repository.ProductModel{},
		&repository.ReviewModel{},
		&repository.CustomerModel{},
		&repository.DriverModel{},
		&repository.AgencyModel{},
		&repository.OutboxMessageModel{},
	); err != nil {
		log.Fatal("failed to migrate", zap.Error(err))
	}

	ctx := context.Background()
	now := time.Now().UTC()

	productRepo := repository.NewGormProductRepository(db)
	for _, sp := range seedProducts {
		var model repository.ProductModel
		if err := db.Where("name = ?", sp.name).First(&model).Error; err == nil {
			continue // already seeded
		}
		product, err := catalog.NewProduct(sp.name, sp.kind, sp.groupKey, sp.priceCents, sp.maxCapacity, sp.description)
		if err != nil {
			log.Fatal("invalid seed product", zap.String("name", sp.name), zap.Error(err))
		}
		if err := productRepo.Save(ctx, product); err != nil {
			log.Fatal("failed to seed product", zap.String("name", sp.name), zap.Error(err))
		}
	}

	customers := []repository.CustomerModel{
		{ID: uuid.New(), Name: "Amara Silva", Email: "amara@example.com", Phone: "+94771234001", Country: "Sri Lanka", CreatedAt: now.AddDate(0, -2, 0)},
		{ID: uuid.New(), Name: "James Whitfield", Email: "james.w@example.com", Phone: "+447900123456", Country: "United Kingdom", CreatedAt: now.AddDate(0, -1, -10)},
		{ID: uuid.New(), Name: "Yuki Tanaka", Email: "yuki.t@example.com", Phone: "+819012345678", Country: "Japan", CreatedAt: now.AddDate(0, 0, -3)},
	}
	for _, c := range customers {
		db.Where("email = ?", c.Email).FirstOrCreate(&c)
	}

	drivers := []repository.DriverModel{
		{ID: uuid.New(), Name: "Ruwan Perera", Phone: "+94771234100", Vehicle: "Toyota HiAce", Active: true, CreatedAt: now.AddDate(0, -6, 0)},
		{ID: uuid.New(), Name: "Kasun Fernando", Phone: "+94771234101", Vehicle: "Suzuki Every", Active: true, CreatedAt: now.AddDate(0, -4, 0)},
		{ID: uuid.New(), Name: "Nimal Jayasuriya", Phone: "+94771234102", Vehicle: "Nissan Caravan", Active: false, CreatedAt: now.AddDate(-1, 0, 0)},
	}
	for _, d := range drivers {
		db.Where("phone = ?", d.Phone).FirstOrCreate(&d)
	}

	agency := repository.AgencyModel{
		ID: uuid.New(), Name: "Island Hopper Travel", Email: "partners@islandhopper.example",
		Country: "Australia", PendingApproval: false, CreatedAt: now.AddDate(0, -8, 0),
	}
	db.Where("email = ?", agency.Email).FirstOrCreate(&agency)

	log.Info("seed completed",
		zap.Int("products", len(seedProducts)),
		zap.Int("customers", len(customers)),
		zap.Int("drivers", len(drivers)),
	)
}
