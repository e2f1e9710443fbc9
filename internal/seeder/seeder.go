package seeder

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/officefood/officefood/internal/database"
	"github.com/officefood/officefood/internal/entity"
)

// Module exposes the seeder to Fx.
var Module = fx.Provide(New)

// Seeder performs database seeding for local/dev setups.
type Seeder struct {
	db     *bun.DB
	logger *zap.Logger
}

// New constructs a Seeder backed by the primary database connection.
func New(conns *database.Connections, logger *zap.Logger) *Seeder {
	return &Seeder{db: conns.Writer, logger: logger}
}

// All seeds companies, users, and a starter menu. Re-running is a no-op.
func (s *Seeder) All(ctx context.Context) error {
	companies, err := s.companies(ctx)
	if err != nil {
		return err
	}
	if err := s.users(ctx, companies); err != nil {
		return err
	}
	return s.menuItems(ctx, companies)
}

func (s *Seeder) companies(ctx context.Context) (map[string]int64, error) {
	now := time.Now().UTC()
	descriptions := map[string]string{
		"TechCorp Solutions": "Software development company",
		"StartupXYZ":         "Early-stage product startup",
	}

	byName := make(map[string]int64, len(descriptions))
	for name, description := range descriptions {
		desc := description
		company := entity.Company{
			Name:        name,
			Description: &desc,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		_, err := s.db.NewInsert().Model(&company).
			On("CONFLICT (name) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return nil, err
		}

		var existing entity.Company
		if err := s.db.NewSelect().Model(&existing).Where("name = ?", name).Scan(ctx); err != nil {
			return nil, err
		}
		byName[name] = existing.ID
	}

	if s.logger != nil {
		s.logger.Info("seeded companies", zap.Int("count", len(byName)))
	}
	return byName, nil
}

func (s *Seeder) users(ctx context.Context, companies map[string]int64) error {
	now := time.Now().UTC()
	techCorp := companies["TechCorp Solutions"]
	startup := companies["StartupXYZ"]

	str := func(v string) *string { return &v }
	samples := []entity.User{
		{Phone: "+1234567890", Name: str("Admin User"), Email: str("admin@techcorp.com"), Role: entity.RoleAdmin, CompanyID: &techCorp, IsActive: true, CreatedAt: now, UpdatedAt: now},
		{Phone: "+1234567891", Name: str("John Doe"), Email: str("john@techcorp.com"), Role: entity.RoleUser, CompanyID: &techCorp, IsActive: true, CreatedAt: now, UpdatedAt: now},
		{Phone: "+1234567892", Name: str("Jane Smith"), Email: str("jane@techcorp.com"), Role: entity.RoleUser, CompanyID: &techCorp, IsActive: true, CreatedAt: now, UpdatedAt: now},
		{Phone: "+1234567893", Name: str("Bob Wilson"), Email: str("bob@startupxyz.com"), Role: entity.RoleAdmin, CompanyID: &startup, IsActive: true, CreatedAt: now, UpdatedAt: now},
	}

	for _, sample := range samples {
		user := sample
		_, err := s.db.NewInsert().Model(&user).
			On("CONFLICT (phone) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return err
		}
	}

	if s.logger != nil {
		s.logger.Info("seeded users", zap.Int("count", len(samples)))
	}
	return nil
}

func (s *Seeder) menuItems(ctx context.Context, companies map[string]int64) error {
	now := time.Now().UTC()
	techCorp := companies["TechCorp Solutions"]
	startup := companies["StartupXYZ"]

	str := func(v string) *string { return &v }
	price := func(v string) decimal.Decimal { return decimal.RequireFromString(v) }
	samples := []entity.MenuItem{
		{Name: "Margherita Pizza", Description: str("Tomato, mozzarella, basil"), Price: price("15.99"), Category: "Pizza", IsAvailable: true, CompanyID: techCorp, CreatedAt: now, UpdatedAt: now},
		{Name: "Pepperoni Pizza", Description: str("Pepperoni, mozzarella"), Price: price("17.99"), Category: "Pizza", IsAvailable: true, CompanyID: techCorp, CreatedAt: now, UpdatedAt: now},
		{Name: "Caesar Salad", Description: str("Romaine, parmesan, croutons"), Price: price("9.50"), Category: "Salad", IsAvailable: true, CompanyID: techCorp, CreatedAt: now, UpdatedAt: now},
		{Name: "Lemonade", Description: str("Freshly squeezed"), Price: price("3.25"), Category: "Drinks", IsAvailable: true, CompanyID: techCorp, CreatedAt: now, UpdatedAt: now},
		{Name: "Chicken Burrito", Description: str("Grilled chicken, rice, beans"), Price: price("11.00"), Category: "Mexican", IsAvailable: true, CompanyID: startup, CreatedAt: now, UpdatedAt: now},
		{Name: "Veggie Bowl", Description: str("Seasonal vegetables, quinoa"), Price: price("10.50"), Category: "Bowls", IsAvailable: true, CompanyID: startup, CreatedAt: now, UpdatedAt: now},
	}

	for _, sample := range samples {
		item := sample
		_, err := s.db.NewInsert().Model(&item).
			On("CONFLICT (company_id, name) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return err
		}
	}

	if s.logger != nil {
		s.logger.Info("seeded menu items", zap.Int("count", len(samples)))
	}
	return nil
}
