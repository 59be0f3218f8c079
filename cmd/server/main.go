package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"school-ledger/internal/cache"
	"school-ledger/internal/config"
	"school-ledger/internal/db"
	"school-ledger/internal/fees"
	"school-ledger/internal/handlers"
	"school-ledger/internal/ledger"
	"school-ledger/internal/reports"
	"school-ledger/internal/store/postgres"
	"school-ledger/internal/validation"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
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

	// Seed admin user if it doesn't exist
	if err := seedAdminUser(cfg, students); err != nil {
		log.Printf("Warning: Failed to seed admin user: %v", err)
	}

	calc := fees.NewCalculator()
	engine := ledger.NewEngine(students, attendance, payments, calc)
	reconciler := ledger.NewReconciler(attendance, payments, calc)
	lifecycle := ledger.NewLifecycle(students, engine)
	validator := validation.NewService()

	reportCache := cache.New(cache.DefaultTTL)
	defer reportCache.Dispose()
	aggregator := reports.NewAggregator(
		students, attendance, payments, expenses,
		engine, calc, reportCache, cfg.IncludeInactiveInReports,
	)

	paymentHandler := handlers.NewPaymentHandler(engine, payments, validator)
	studentHandler := handlers.NewStudentHandler(students, payments, engine, reconciler, lifecycle, validator)
	reportHandler := handlers.NewReportHandler(aggregator)
	attendanceHandler := handlers.NewAttendanceHandler(attendance, validator)
	expenseHandler := handlers.NewExpenseHandler(expenses, validator)

	// Setup routes
	mux := http.NewServeMux()

	// Request logging middleware - concise request log
	requestLogMiddleware := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			cfg.Debugf("REQUEST: %s %s", r.Method, r.URL.Path)
			next(w, r)
		}
	}

	mux.HandleFunc("/api/payments", requestLogMiddleware(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			paymentHandler.Create(w, r)
		case http.MethodGet:
			paymentHandler.List(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}))
	mux.HandleFunc("/api/payments/", requestLogMiddleware(paymentHandler.ByID))

	mux.HandleFunc("/api/students", requestLogMiddleware(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			studentHandler.Create(w, r)
		case http.MethodGet:
			studentHandler.List(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}))
	mux.HandleFunc("/api/students/", requestLogMiddleware(studentHandler.ByID))

	mux.HandleFunc("/api/reports/monthly", requestLogMiddleware(reportHandler.Monthly))
	mux.HandleFunc("/api/reports/cumulative", requestLogMiddleware(reportHandler.Cumulative))
	mux.HandleFunc("/api/reports/attendance", requestLogMiddleware(reportHandler.Attendance))
	mux.HandleFunc("/api/reports/dashboard", requestLogMiddleware(reportHandler.Dashboard))
	mux.HandleFunc("/api/reports/export", requestLogMiddleware(reportHandler.Export))
	mux.HandleFunc("/api/reports/visualization", requestLogMiddleware(reportHandler.Visualization))

	mux.HandleFunc("/api/attendance/", requestLogMiddleware(attendanceHandler.ByDate))

	mux.HandleFunc("/api/expenses", requestLogMiddleware(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			expenseHandler.Create(w, r)
		case http.MethodGet:
			expenseHandler.List(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}))
	mux.HandleFunc("/api/expenses/", requestLogMiddleware(expenseHandler.ByID))

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := conn.Ping(); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprintln(w, "ok")
	})

	addr := ":" + cfg.Port
	log.Printf("Server starting on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// seedAdminUser creates the admin account on first boot so the API has an
// owner for adminId fields. The password is stored bcrypt-hashed.
func seedAdminUser(cfg *config.Config, students *postgres.StudentStore) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	if err := students.EnsureAdmin(context.Background(), uuid.New().String(), cfg.AdminEmail, string(hash)); err != nil {
		return fmt.Errorf("failed to ensure admin user: %w", err)
	}
	return nil
}
