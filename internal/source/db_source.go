package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"quickclose-report/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// maxBoundIDs caps the size of a single IN list.
const maxBoundIDs = 1000

// DBSource reads the trading server's tables through gorm.
type DBSource struct {
	db     *gorm.DB
	logger *zap.Logger
}

var _ Source = (*DBSource)(nil)

// NewDBSource creates a source over db. The caller keeps ownership of db.
func NewDBSource(db *gorm.DB, logger *zap.Logger) *DBSource {
	return &DBSource{db: db, logger: logger.Named("db-source")}
}

func (s *DBSource) Trades(ctx context.Context, start, end time.Time) ([]models.Trade, error) {
	from, to := start.Unix(), end.Unix()

	var trades []models.Trade
	err := s.db.WithContext(ctx).
		Where("(open_time BETWEEN ? AND ?) OR (close_time BETWEEN ? AND ?)", from, to, from, to).
		Order("id").
		Find(&trades).Error
	if err != nil {
		return nil, fmt.Errorf("fetch trades: %w: %w", ErrUnavailable, err)
	}

	s.logger.Debug("Fetched trades", zap.Int("count", len(trades)), zap.Time("start", start), zap.Time("end", end))
	return trades, nil
}

func (s *DBSource) Accounts(ctx context.Context, logins []int64, types []string) ([]models.Account, error) {
	var accounts []models.Account
	for _, batch := range Chunk(logins, maxBoundIDs) {
		q := s.db.WithContext(ctx).Where("login IN ?", batch)
		if len(types) > 0 {
			conds := make([]string, len(types))
			args := make([]interface{}, len(types))
			for i, t := range types {
				conds[i] = "type LIKE ? ESCAPE '!'"
				args[i] = "%" + escapeLike(t) + "%"
			}
			q = q.Where("("+strings.Join(conds, " OR ")+")", args...)
		}

		var part []models.Account
		if err := q.Order("id").Find(&part).Error; err != nil {
			return nil, fmt.Errorf("fetch accounts: %w: %w", ErrUnavailable, err)
		}
		accounts = append(accounts, part...)
	}
	return accounts, nil
}

func (s *DBSource) Customers(ctx context.Context, ids []int64) ([]models.Customer, error) {
	var customers []models.Customer
	for _, batch := range Chunk(ids, maxBoundIDs) {
		var part []models.Customer
		if err := s.db.WithContext(ctx).Where("id IN ?", batch).Order("id").Find(&part).Error; err != nil {
			return nil, fmt.Errorf("fetch customers: %w: %w", ErrUnavailable, err)
		}
		customers = append(customers, part...)
	}
	return customers, nil
}

func (s *DBSource) Countries(ctx context.Context, ids []int64) ([]models.Country, error) {
	var countries []models.Country
	for _, batch := range Chunk(ids, maxBoundIDs) {
		var part []models.Country
		if err := s.db.WithContext(ctx).Where("id IN ?", batch).Order("id").Find(&part).Error; err != nil {
			return nil, fmt.Errorf("fetch countries: %w: %w", ErrUnavailable, err)
		}
		countries = append(countries, part...)
	}
	return countries, nil
}

// escapeLike makes s match literally inside a LIKE pattern escaped with '!'.
func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}
