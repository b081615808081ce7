package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"krishimitra-backend/internal/config"
	"krishimitra-backend/internal/domain"
	"krishimitra-backend/internal/logger"
	"krishimitra-backend/internal/repository"
	"krishimitra-backend/internal/repository/postgres"
	"krishimitra-backend/internal/security"
)

type seedUser struct {
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Email     string `yaml:"email"`
	Password  string `yaml:"password"`
	Role      string `yaml:"role"`
	Balance   string `yaml:"balance"`
}

type seedData struct {
	Users []seedUser `yaml:"users"`
}

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	seedPath := flag.String("data", "config/seed.dev.yaml", "Path to seed data file")
	printTokens := flag.Bool("tokens", false, "Print an access token for every seeded user")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)

	data, err := readSeedFile(*seedPath)
	if err != nil {
		log.Fatalf("Failed to read seed file: %v", err)
	}

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	store := postgres.NewStore(db)
	users, err := populateUsers(context.Background(), store, data.Users)
	if err != nil {
		log.Fatalf("Failed to populate users: %v", err)
	}

	if *printTokens {
		tm := security.NewTokenManager(cfg.JWT.Secret, cfg.AccessTokenTTL())
		for _, u := range users {
			token, err := tm.GenerateAccessToken(u.ID, string(u.Role))
			if err != nil {
				log.Fatalf("Failed to sign token for %s: %v", u.Email, err)
			}
			fmt.Printf("%s\t%d\t%s\n", u.Email, u.ID, token)
		}
	}

	logger.Info("Seed data populated", "users", len(users))
}

func readSeedFile(filename string) (*seedData, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var data seedData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// populateUsers inserts every user in one transaction.
func populateUsers(ctx context.Context, tx repository.Transactor, seeds []seedUser) ([]*domain.User, error) {
	var created []*domain.User
	err := tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		for _, s := range seeds {
			u, err := s.toDomain()
			if err != nil {
				return err
			}
			if err := repos.Accounts.Create(ctx, u); err != nil {
				return fmt.Errorf("create %s: %w", s.Email, err)
			}
			logger.Info("Created user", "email", u.Email, "user_id", u.ID, "balance", domain.FormatMoney(u.Balance))
			created = append(created, u)
		}
		return nil
	})
	return created, err
}

func (s seedUser) toDomain() (*domain.User, error) {
	role := domain.UserRole(s.Role)
	if !role.Valid() {
		return nil, fmt.Errorf("user %s: invalid role %q", s.Email, s.Role)
	}
	balance := decimal.Zero
	if s.Balance != "" {
		b, ok := domain.ParseMoney(s.Balance)
		if !ok {
			return nil, fmt.Errorf("user %s: invalid balance %q", s.Email, s.Balance)
		}
		balance = b
	}
	return &domain.User{
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Email:     s.Email,
		Password:  s.Password,
		Role:      role,
		Balance:   balance,
	}, nil
}
