// Command seed loads a development admin account and a sample catalogue into
// MongoDB, then prints a session token for the admin.
package main

import (
	"context"
	"fmt"
	"time"

	"relocare/config"
	"relocare/database"
	catalogRepo "relocare/database/repository/catalog"
	userRepoPkg "relocare/database/repository/user"
	"relocare/models"
	"relocare/services/catalog"
	"relocare/services/notification"
	"relocare/services/user"
	"relocare/utils"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type sampleService struct {
	input models.ServiceInput
	subs  []models.SubServiceInput
}

func price(v float64) *float64 { return &v }

var sampleCatalog = []sampleService{
	{
		input: models.ServiceInput{Name: "House Removals", Description: "Full house moves with packing and loading.", Category: "moving"},
		subs: []models.SubServiceInput{
			{Name: "1 Bedroom", Price: price(450), EstimatedDuration: "3 hours", Features: []string{"1 truck", "2 movers"}},
			{Name: "3 Bedroom", Price: price(950), EstimatedDuration: "6 hours", Features: []string{"1 truck", "3 movers", "blanket wrap"}},
		},
	},
	{
		input: models.ServiceInput{Name: "Office Relocation", Description: "After-hours office moves.", Category: "moving", PriceType: models.PriceQuote},
	},
	{
		input: models.ServiceInput{Name: "Termite Inspection", Description: "Annual timber pest inspection.", Category: "pest", BasePrice: price(220)},
		subs: []models.SubServiceInput{
			{Name: "Standard Inspection", Price: price(220), PriceType: models.PriceFixed},
			{Name: "Pre-purchase Report", Price: price(320), PriceType: models.PriceStartingFrom, Features: []string{"written report"}},
		},
	},
}

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger().Named("seed")

	viper.SetDefault("SEED_ADMIN_EMAIL", "admin@relocare.local")
	viper.SetDefault("SEED_ADMIN_NAME", "Relocare Admin")

	database.InitDB()
	db := database.Database()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	defer func() { _ = database.CloseDB(context.Background()) }()

	users := user.NewDefaultUserService(userRepoPkg.NewMongoUserRepo(db), nil)
	admin, err := ensureAdmin(ctx, users, viper.GetString("SEED_ADMIN_EMAIL"), viper.GetString("SEED_ADMIN_NAME"))
	if err != nil {
		logger.Fatal("failed to seed admin", zap.Error(err))
	}
	logger.Info("admin ready", zap.String("id", admin.ID), zap.String("email", admin.Email))

	svc := catalog.NewDefaultCatalogService(
		catalogRepo.NewMongoCatalogRepo(db, config.AppConfig.MongoTransactions),
		notification.NewLogSink(logger),
	)
	for _, sample := range sampleCatalog {
		created, err := svc.CreateService(ctx, sample.input)
		if utils.IsKind(err, utils.KindConflict) {
			logger.Info("service already present", zap.String("name", sample.input.Name))
			continue
		}
		if err != nil {
			logger.Fatal("failed to seed service", zap.String("name", sample.input.Name), zap.Error(err))
		}
		for _, sub := range sample.subs {
			if _, err := svc.CreateSubService(ctx, created.ID, sub); err != nil {
				logger.Fatal("failed to seed sub-service", zap.String("name", sub.Name), zap.Error(err))
			}
		}
		logger.Info("service seeded", zap.String("name", created.Name), zap.Int("subServices", len(sample.subs)))
	}

	token, err := utils.GenerateToken(config.AppConfig.JWTSecret, admin.ID, admin.Email, config.SessionTTL())
	if err != nil {
		logger.Fatal("failed to sign admin token", zap.Error(err))
	}
	fmt.Println(token)
}

// ensureAdmin creates the admin account, or promotes an existing account
// with the same e-mail.
func ensureAdmin(ctx context.Context, users user.UserService, email, name string) (*models.User, error) {
	existing, err := users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.IsAdmin() {
			return existing, nil
		}
		return users.UpdateRole(ctx, "", existing.ID, models.RoleAdmin)
	case utils.IsKind(err, utils.KindNotFound):
		admin := &models.User{Name: name, Email: email, Role: models.RoleAdmin}
		if err := users.CreateUser(ctx, admin); err != nil {
			return nil, err
		}
		return admin, nil
	default:
		return nil, err
	}
}
