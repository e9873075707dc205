// cmd/migrate/main.go
// One-shot import of a legacy MySQL scraper database into the local
// PostgreSQL schema. Legacy numeric identifiers are mapped onto
// external-style prefixed ids so imported rows coexist with feed rows.
//
// Usage:
//
//	MYSQL_DSN="user:pass@tcp(host:3306)/rpData?parseTime=true" \
//	DB_PASS="pgpass" \
//	go run ./cmd/migrate
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/uptrace/bun"

	"github.com/padraicbc/rpingest/config"
	bundb "github.com/padraicbc/rpingest/db"
	"github.com/padraicbc/rpingest/models"
)

const batchSize = 500

func main() {
	ctx := context.Background()

	cfg := config.Load()

	// --- MySQL ---
	if cfg.MySQLDSN == "" {
		log.Fatal("MYSQL_DSN required, e.g.: user:pass@tcp(host:3306)/rpData?parseTime=true")
	}
	myDB, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("open mysql: %v", err)
	}
	defer myDB.Close()
	myDB.SetMaxOpenConns(4)
	if err := myDB.PingContext(ctx); err != nil {
		log.Fatalf("ping mysql: %v", err)
	}
	log.Println("connected to MySQL")

	// --- PostgreSQL ---
	pgDB := bundb.Setup(cfg)
	defer pgDB.Close()
	log.Println("connected to PostgreSQL")

	if err := bundb.CreateTables(ctx, pgDB); err != nil {
		log.Fatalf("create tables: %v", err)
	}

	steps := []struct {
		name string
		fn   func() (int, error)
	}{
		{"courses", func() (int, error) { return migrateCourses(ctx, myDB, pgDB) }},
		{"horses", func() (int, error) { return migrateHorses(ctx, myDB, pgDB) }},
		{"races", func() (int, error) { return migrateRaces(ctx, myDB, pgDB) }},
		{"runners", func() (int, error) { return migrateRunners(ctx, myDB, pgDB) }},
	}

	for _, s := range steps {
		n, err := s.fn()
		if err != nil {
			log.Fatalf("migrate %s: %v", s.name, err)
		}
		log.Printf("%-10s  %d rows migrated", s.name, n)
	}

	log.Println("migration complete")
}

// legacyID maps a legacy numeric key onto an external-style identifier.
func legacyID(prefix string, id int) string {
	return fmt.Sprintf("%s_lg_%d", prefix, id)
}

func nullStr(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	return &n.String
}

func nullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func fmtDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// bulkInsert inserts a batch, skipping rows that already exist (idempotent re-runs).
func bulkInsert[T any](ctx context.Context, pgDB *bun.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := pgDB.NewInsert().Model(&rows).On("CONFLICT DO NOTHING").Exec(ctx)
	return err
}

// flush drains the batch through bulkInsert when it reaches batchSize.
func flush[T any](ctx context.Context, pgDB *bun.DB, batch []T, total int, force bool) ([]T, int, error) {
	if !force && len(batch) < batchSize {
		return batch, total, nil
	}
	if err := bulkInsert(ctx, pgDB, batch); err != nil {
		return batch, total, err
	}
	return batch[:0], total + len(batch), nil
}

func migrateCourses(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	rows, err := myDB.QueryContext(ctx, "SELECT courseID, course, code FROM courses")
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []models.Course
	total := 0
	for rows.Next() {
		var (
			id     int
			course string
			code   string
		)
		if err := rows.Scan(&id, &course, &code); err != nil {
			return total, err
		}
		batch = append(batch, models.Course{
			CourseID: legacyID("crs", id),
			Name:     course,
			Region:   code,
		})
		if batch, total, err = flush(ctx, pgDB, batch, total, false); err != nil {
			return total, err
		}
	}
	if batch, total, err = flush(ctx, pgDB, batch, total, true); err != nil {
		return total, err
	}
	return total, rows.Err()
}

func migrateHorses(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	rows, err := myDB.QueryContext(ctx, "SELECT horseID, horse FROM horses")
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []models.Horse
	total := 0
	for rows.Next() {
		var (
			id   int
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return total, err
		}
		batch = append(batch, models.Horse{
			HorseID: legacyID("hrs", id),
			Name:    name,
		})
		if batch, total, err = flush(ctx, pgDB, batch, total, false); err != nil {
			return total, err
		}
	}
	if batch, total, err = flush(ctx, pgDB, batch, total, true); err != nil {
		return total, err
	}
	return total, rows.Err()
}

func migrateRaces(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	rows, err := myDB.QueryContext(ctx,
		"SELECT raceID, courseID, date, time, class, distance, going FROM races")
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []models.Race
	total := 0
	for rows.Next() {
		var (
			raceID   int
			courseID int
			date     time.Time
			offTime  string
			class    sql.NullString
			distance float64
			going    sql.NullString
		)
		if err := rows.Scan(&raceID, &courseID, &date, &offTime, &class, &distance, &going); err != nil {
			return total, err
		}
		batch = append(batch, models.Race{
			RaceID:   legacyID("rac", raceID),
			CourseID: legacyID("crs", courseID),
			Date:     fmtDate(date),
			OffTime:  offTime,
			Class:    nullStr(class),
			Distance: distance,
			Going:    nullStr(going),
		})
		if batch, total, err = flush(ctx, pgDB, batch, total, false); err != nil {
			return total, err
		}
	}
	if batch, total, err = flush(ctx, pgDB, batch, total, true); err != nil {
		return total, err
	}
	return total, rows.Err()
}

func migrateRunners(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	rows, err := myDB.QueryContext(ctx,
		`SELECT raceID, horseID, number, age, weightCarried, placed
		 FROM results`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []models.Runner
	total := 0
	for rows.Next() {
		var (
			raceID  int
			horseID int
			number  int
			age     int
			weight  sql.NullInt64
			placed  sql.NullInt64
		)
		if err := rows.Scan(&raceID, &horseID, &number, &age, &weight, &placed); err != nil {
			return total, err
		}
		batch = append(batch, models.Runner{
			RaceID:        legacyID("rac", raceID),
			HorseID:       legacyID("hrs", horseID),
			Number:        number,
			Age:           age,
			WeightCarried: nullInt(weight),
			Position:      nullInt(placed),
		})
		if batch, total, err = flush(ctx, pgDB, batch, total, false); err != nil {
			return total, err
		}
	}
	if batch, total, err = flush(ctx, pgDB, batch, total, true); err != nil {
		return total, err
	}
	return total, rows.Err()
}
