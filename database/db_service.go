package database

import (
	"context"
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gitlab.com/aoterocom/AOCryptomarket/config"
	database "gitlab.com/aoterocom/AOCryptomarket/database/models"
	"gitlab.com/aoterocom/AOCryptomarket/helpers"
	"gitlab.com/aoterocom/AOCryptomarket/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DBService struct {
	DB *gorm.DB
}

func NewDBService(cfg config.Database) (*DBService, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dsn := cfg.User + ":" + cfg.Password + "@tcp(" + cfg.Host + ":" + cfg.Port + ")/" + cfg.Name + "?charset=utf8mb4&parseTime=True&loc=Local"
		dialector = mysql.Open(dsn)
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)
		dialector = postgres.Open(dsn)
	case "sqlite", "":
		dialector = sqlite.Open(cfg.Path)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	return NewDBServiceWithDialector(dialector)
}

func NewDBServiceWithDialector(dialector gorm.Dialector) (*DBService, error) {
	db, err := gorm.Open(dialector, &gorm.Config{Logger: NewLogrusLogger(helpers.Logger.Logger)})
	if err != nil {
		return nil, err
	}

	dbs := &DBService{
		DB: db,
	}

	err = dbs.DB.AutoMigrate(&database.SavedCoin{})
	if err != nil {
		return nil, err
	}

	return dbs, nil
}

// Insert saves the coin or refreshes the stored copy when its ID already exists.
func (dbs *DBService) Insert(ctx context.Context, coin models.Coin) error {
	if coin.ID == "" {
		return fmt.Errorf("cannot save coin %q without id", coin.Name)
	}

	dbCoin := coinToSavedCoin(coin)

	// Update columns to new value on conflict
	return dbs.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "coin_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "symbol", "image", "current_price",
			"price_change_percentage_24h", "last_updated", "updated_at"}),
	}).Create(&dbCoin).Error
}

func (dbs *DBService) Delete(ctx context.Context, id string) error {
	return dbs.DB.WithContext(ctx).Unscoped().Delete(&database.SavedCoin{}, "coin_id = ?", id).Error
}

// GetAll returns the saved coins in the order they were first saved.
func (dbs *DBService) GetAll(ctx context.Context) ([]models.Coin, error) {
	var dbCoins []database.SavedCoin
	if err := dbs.DB.WithContext(ctx).Order("created_at, coin_id").Find(&dbCoins).Error; err != nil {
		return nil, err
	}

	coins := make([]models.Coin, 0, len(dbCoins))
	for _, dbCoin := range dbCoins {
		coins = append(coins, savedCoinToCoin(dbCoin))
	}
	return coins, nil
}

func (dbs *DBService) Close() error {
	sqlDB, err := dbs.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func coinToSavedCoin(coin models.Coin) database.SavedCoin {
	return database.SavedCoin{
		CoinID:                   coin.ID,
		Name:                     coin.Name,
		Symbol:                   coin.Symbol,
		Image:                    coin.Image,
		CurrentPrice:             coin.CurrentPrice.String(),
		PriceChangePercentage24h: coin.PriceChangePercentage24h.String(),
		LastUpdated:              coin.LastUpdated,
	}
}

func savedCoinToCoin(dbCoin database.SavedCoin) models.Coin {
	return models.Coin{
		ID:                       dbCoin.CoinID,
		Name:                     dbCoin.Name,
		Symbol:                   dbCoin.Symbol,
		Image:                    dbCoin.Image,
		CurrentPrice:             parseDecimal(dbCoin.CurrentPrice),
		PriceChangePercentage24h: parseDecimal(dbCoin.PriceChangePercentage24h),
		LastUpdated:              dbCoin.LastUpdated,
	}
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
