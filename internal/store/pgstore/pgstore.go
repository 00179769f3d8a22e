package pgstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ratesprovider/internal/rates"
)

// bestGuessID is the primary key of the only row.
const bestGuessID = 1

// BestGuessModel is the database row holding the best guess.
type BestGuessModel struct {
	ID        uint   `gorm:"primaryKey"`
	Code      string `gorm:"size:7;not null"`
	RateCoin  int64  `gorm:"not null"`
	RateFiat  int64  `gorm:"not null"`
	Source    string `gorm:"size:128"`
	UpdatedAt time.Time
}

func (BestGuessModel) TableName() string { return "best_guess" }

func toModel(r rates.ExchangeRate) BestGuessModel {
	return BestGuessModel{
		ID:       bestGuessID,
		Code:     r.Code,
		RateCoin: r.Rate.Coin,
		RateFiat: r.Rate.Fiat,
		Source:   r.Source,
	}
}

func fromModel(m BestGuessModel) rates.ExchangeRate {
	return rates.ExchangeRate{
		Code:   m.Code,
		Rate:   rates.Rate{Coin: m.RateCoin, Fiat: m.RateFiat},
		Source: m.Source,
	}
}

// Store keeps the best guess in a single-row postgres table.
type Store struct {
	db *gorm.DB
}

// Open connects to postgres and migrates the best guess table.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return New(db)
}

func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&BestGuessModel{}); err != nil {
		return nil, fmt.Errorf("migrate best_guess: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Get(ctx context.Context) (*rates.ExchangeRate, error) {
	var m BestGuessModel
	err := s.db.WithContext(ctx).First(&m, bestGuessID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load best guess: %w", err)
	}
	r := fromModel(m)
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("load best guess: %w", err)
	}
	return &r, nil
}

func (s *Store) Set(ctx context.Context, rate rates.ExchangeRate) error {
	if err := rate.Validate(); err != nil {
		return err
	}
	m := toModel(rate)
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&m).Error
	if err != nil {
		return fmt.Errorf("save best guess: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
