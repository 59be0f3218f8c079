// Seeder command for populating demo students, attendance and payments.
//
// SAFETY: This command ONLY runs when:
//   - APP_ENV=development
//   - --confirm flag is provided
//
// Usage:
//
//	APP_ENV=development go run cmd/seed/main.go --students 12 --confirm
//
// Default student count is 12 if --students is not provided.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"

	"school-ledger/internal/config"
	"school-ledger/internal/db"
	"school-ledger/internal/dateutil"
	"school-ledger/internal/models"
	"school-ledger/internal/store/postgres"
)

var firstNames = []string{"Amira", "Bilal", "Clara", "Dina", "Emil", "Farah", "Gustav", "Hana", "Idris", "Jana", "Karim", "Lina"}
var lastNames = []string{"Ahmed", "Berg", "Costa", "Dahl", "Eriksen", "Farouk", "Grimm", "Hassan", "Iversen", "Jansen", "Khalil", "Lund"}

func main() {
	// Parse flags
	count := flag.Int("students", 12, "Number of students to seed")
	confirm := flag.Bool("confirm", false, "Confirm seeding (required)")
	flag.Parse()

	// Safety check: APP_ENV must be development
	if os.Getenv("APP_ENV") != "development" {
		log.Fatalf("ERROR: Seeder can only run in development environment. Set APP_ENV=development and try again.")
	}

	// Safety check: --confirm flag required
	if !*confirm {
		log.Fatalf("ERROR: --confirm flag is required. Usage: APP_ENV=development go run cmd/seed/main.go --students %d --confirm", *count)
	}

	cfg := config.Load()
	conn, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()

	if err := db.RunMigrations(conn); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	students := postgres.NewStudentStore(conn)
	attendance := postgres.NewAttendanceStore(conn)
	payments := postgres.NewPaymentStore(conn)
	expenses := postgres.NewExpenseStore(conn)

	ctx := context.Background()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	log.Printf("SEEDER: inserting %d students with a month of attendance and payments", *count)

	monthStart, _ := dateutil.MonthBounds(time.Now())
	statuses := []string{models.AttendancePresent, models.AttendancePresent, models.AttendancePresent, models.AttendanceAbsent, models.AttendanceLate}

	for i := 0; i < *count; i++ {
		first := firstNames[i%len(firstNames)]
		last := lastNames[(i/len(firstNames)+i)%len(lastNames)]
		student := &models.Student{
			ID:               uuid.New().String(),
			FirstName:        first,
			LastName:         last,
			Email:            fmt.Sprintf("%s.%s.%d@school.test", first, last, i),
			Role:             models.RoleStudent,
			EnrollmentStatus: models.StatusEnrolled,
			CreatedAt:        time.Now(),
		}
		if err := students.Create(ctx, student); err != nil {
			log.Fatalf("Failed to seed student: %v", err)
		}

		// Three weeks of weekday attendance
		totalFees := 0
		for day := 0; day < 21; day++ {
			date := dateutil.AddDays(monthStart, day)
			if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
				continue
			}
			status := statuses[rng.Intn(len(statuses))]
			rec := models.AttendanceRecord{Status: status, Timestamp: date}
			if status == models.AttendancePresent && rng.Intn(5) == 0 {
				rec.Attributes = map[string]bool{models.AttrNoShoes: true}
				totalFees++
			}
			switch status {
			case models.AttendanceAbsent:
				totalFees += 5
			case models.AttendanceLate:
				totalFees++
			}
			if err := attendance.SetRecord(ctx, dateutil.ToKey(date), student.ID, rec); err != nil {
				log.Fatalf("Failed to seed attendance: %v", err)
			}
		}

		// Roughly two thirds of students pay something
		if rng.Intn(3) > 0 && totalFees > 0 {
			amount := totalFees
			if rng.Intn(2) == 0 {
				amount = totalFees / 2
			}
			payment := &models.Payment{
				ID:            uuid.New().String(),
				StudentID:     student.ID,
				Amount:        amount,
				Date:          dateutil.AddDays(monthStart, 14+rng.Intn(7)),
				PaymentMethod: models.MethodCash,
				Notes:         "seeded payment",
				CreatedAt:     time.Now(),
			}
			if err := payments.Create(ctx, payment); err != nil {
				log.Fatalf("Failed to seed payment: %v", err)
			}
		}
	}

	for _, category := range []string{models.ExpenseSupplies, models.ExpenseUtilities} {
		expense := &models.Expense{
			ID:          uuid.New().String(),
			Category:    category,
			Description: "seeded " + category,
			Amount:      20 + rng.Intn(80),
			Date:        dateutil.AddDays(monthStart, rng.Intn(21)),
			AdminID:     "seed",
			CreatedAt:   time.Now(),
		}
		if err := expenses.Create(ctx, expense); err != nil {
			log.Fatalf("Failed to seed expense: %v", err)
		}
	}

	log.Printf("SEEDER: done")
}
