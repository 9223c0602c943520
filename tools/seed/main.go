// Command seed fills a portal database with demo residents, a fee
// configuration and a few months of generated fees. Meant for local
// development and load testing, never production.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type config struct {
	dsn       string
	residents int
	months    int
	startDate string
	amount    float64
	dueDay    int
}

func main() {
	cfg := parseConfig()
	if cfg.dsn == "" {
		log.Fatal("PG_DSN or DATABASE_URL is required")
	}
	if cfg.residents <= 0 {
		log.Fatal("residents must be > 0")
	}
	if cfg.months <= 0 {
		log.Fatal("months must be > 0")
	}

	start, err := time.Parse("2006-01", cfg.startDate)
	if err != nil {
		log.Fatalf("invalid start-month: %v", err)
	}

	db, err := sql.Open("pgx", cfg.dsn)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	residentIDs, err := seedResidents(ctx, db, cfg.residents)
	if err != nil {
		log.Fatalf("seed residents: %v", err)
	}
	log.Printf("seeded %d residents", len(residentIDs))

	if err := seedFeeConfiguration(ctx, db, cfg.amount, start); err != nil {
		log.Fatalf("seed fee configuration: %v", err)
	}

	inserted, err := seedFees(ctx, db, residentIDs, start, cfg.months, cfg.amount, cfg.dueDay)
	if err != nil {
		log.Fatalf("seed fees: %v", err)
	}
	log.Printf("seeded %d monthly fees across %d months", inserted, cfg.months)
}

func parseConfig() config {
	cfg := config{}
	flag.StringVar(&cfg.dsn, "dsn", envDefault("PG_DSN", os.Getenv("DATABASE_URL")), "postgres dsn")
	flag.IntVar(&cfg.residents, "residents", 20, "residents to create")
	flag.IntVar(&cfg.months, "months", 3, "months of fees to generate")
	flag.StringVar(&cfg.startDate, "start-month", time.Now().UTC().Format("2006-01"), "first reference month (2006-01)")
	flag.Float64Var(&cfg.amount, "amount", 350, "monthly fee amount")
	flag.IntVar(&cfg.dueDay, "due-day", 10, "due day of month")
	flag.Parse()
	return cfg
}

func envDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func seedResidents(ctx context.Context, db *sql.DB, count int) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, count)
	now := time.Now().UTC()
	for i := 0; i < count; i++ {
		id := uuid.New()
		name := fmt.Sprintf("Demo Resident %03d", i+1)
		email := fmt.Sprintf("resident%03d@example.com", i+1)
		unit := fmt.Sprintf("%d%02d", i/10+1, i%10+1)
		_, err := db.ExecContext(ctx, `
			INSERT INTO residents (id, name, email, unit, active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, TRUE, $5, $5)
		`, id, name, email, unit, now)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func seedFeeConfiguration(ctx context.Context, db *sql.DB, amount float64, start time.Time) error {
	var open int
	if err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM fee_configurations WHERE end_date IS NULL").Scan(&open); err != nil {
		return err
	}
	if open > 0 {
		log.Print("fee configuration already present, skipping")
		return nil
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO fee_configurations (id, amount, description, start_date, created_at)
		VALUES ($1, $2, 'seeded rate', $3, now())
	`, uuid.New(), decimal.NewFromFloat(amount), start)
	return err
}

func seedFees(ctx context.Context, db *sql.DB, residentIDs []uuid.UUID, start time.Time, months int, amount float64, dueDay int) (int, error) {
	inserted := 0
	value := decimal.NewFromFloat(amount)
	now := time.Now().UTC()
	for m := 0; m < months; m++ {
		month := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, m, 0)
		day := dueDay
		if last := month.AddDate(0, 1, -1).Day(); day > last {
			day = last
		}
		due := time.Date(month.Year(), month.Month(), day, 0, 0, 0, 0, time.UTC)
		for _, residentID := range residentIDs {
			result, err := db.ExecContext(ctx, `
				INSERT INTO monthly_fees (
					id, user_id, reference_month, amount, due_date, status, created_at, updated_at
				) VALUES ($1, $2, $3, $4, $5, 'pending', $6, $6)
				ON CONFLICT (user_id, reference_month) DO NOTHING
			`, uuid.New(), residentID, month, value, due, now)
			if err != nil {
				return inserted, err
			}
			if affected, err := result.RowsAffected(); err == nil {
				inserted += int(affected)
			}
		}
	}
	return inserted, nil
}
