package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/srgjo27/parking_lot/internal/adapter/external"
	"github.com/srgjo27/parking_lot/internal/adapter/handler"
	"github.com/srgjo27/parking_lot/internal/adapter/repository/postgres"
	"github.com/srgjo27/parking_lot/internal/core/services"
	"github.com/srgjo27/parking_lot/internal/platform/clock"
	"github.com/srgjo27/parking_lot/internal/platform/database"
)

func loadEnv(filepath string) {
	file, err := os.Open(filepath)

	if err != nil {
		log.Println("No .env file found, using OS environment variables.")
		return
	}

	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) == 2 {
			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])

			os.Setenv(key, value)
		}
	}

	if err := scanner.Err(); err != nil {
		log.Printf("Failed to read .env file: %v\n", err)
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func rateFromEnv(key string, fallback decimal.Decimal) decimal.Decimal {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	rate, err := decimal.NewFromString(value)
	if err != nil || rate.IsNegative() {
		log.Printf("Ignoring invalid rate %s=%q", key, value)
		return fallback
	}

	return rate
}

func rateTableFromEnv() services.RateTable {
	rates := services.DefaultRateTable()

	rates.CarBaseHourly = rateFromEnv("PRICE_CAR_BASE_HOURLY", rates.CarBaseHourly)
	rates.CarAdditionalHourly = rateFromEnv("PRICE_CAR_ADDITIONAL_HOURLY", rates.CarAdditionalHourly)
	rates.CarDailyRate = rateFromEnv("PRICE_CAR_DAILY", rates.CarDailyRate)
	rates.MotorcycleBaseHourly = rateFromEnv("PRICE_MOTORCYCLE_BASE_HOURLY", rates.MotorcycleBaseHourly)
	rates.MotorcycleAdditionalHourly = rateFromEnv("PRICE_MOTORCYCLE_ADDITIONAL_HOURLY", rates.MotorcycleAdditionalHourly)

	return rates
}

func employeePlates() []string {
	var plates []string
	for _, plate := range strings.Split(envOr("EMPLOYEE_PLATES", "GJK8D74"), ",") {
		plate = strings.TrimSpace(plate)
		if plate != "" {
			plates = append(plates, plate)
		}
	}
	return plates
}

func main() {
	loadEnv(".env")

	dbConfig := database.Config{
		Host:     envOr("DB_HOST", "localhost"),
		Port:     envOr("DB_PORT", "5432"),
		User:     envOr("DB_USER", "postgres"),
		Password: os.Getenv("DB_PASSWORD"),
		DBName:   envOr("DB_NAME", "parking_lot"),
	}

	db, err := database.NewPostgresDB(dbConfig)

	if err != nil {
		log.Fatalf("Failed to connect to db after retries: %v", err)
	}

	redisHost := envOr("REDIS_HOST", "localhost")
	redisPort := envOr("REDIS_PORT", "6379")

	log.Printf("Connecting to Redis at %s:%s...", redisHost, redisPort)

	redisClient := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", redisHost, redisPort),
		DB:   0,
	})

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	log.Println("Redis connected successfully!")

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	defer db.Close()

	ticketStore := postgres.NewTicketRepository(db, redisClient)
	systemClock := clock.System{}

	calculator := services.NewPriceCalculator(rateTableFromEnv())

	issuanceService := services.NewIssuanceService(ticketStore, systemClock)
	paymentService := services.NewPaymentService(
		external.NewLoggingPaymentGateway(), calculator, ticketStore, systemClock)
	exemptionService := services.NewExemptionService(
		ticketStore,
		external.NewStaticEmployeeRegistry(employeePlates()),
		external.NewTokenReceiptValidator(envOr("RECEIPT_TOKEN", "VALID_RECEIPT")),
	)
	exitService := services.NewExitService(ticketStore, systemClock)

	ticketHandler := handler.NewTicketHandler(
		issuanceService, paymentService, exemptionService, exitService, ticketStore)

	occupancyMonitor := services.NewOccupancyMonitor(ticketStore, 1*time.Minute)
	go func() {
		occupancyMonitor.Run(context.Background())
	}()

	mux := http.NewServeMux()

	mux.HandleFunc("POST /tickets", ticketHandler.IssueTicket)
	mux.HandleFunc("GET /tickets/{id}", ticketHandler.GetTicket)
	mux.HandleFunc("GET /tickets/{id}/amount", ticketHandler.GetAmountDue)
	mux.HandleFunc("PUT /tickets/{id}/pay", ticketHandler.PayTicket)
	mux.HandleFunc("PUT /tickets/{id}/exit", ticketHandler.ProcessExit)
	mux.HandleFunc("PUT /tickets/{id}/exempt-by-receipt", ticketHandler.ExemptByReceipt)
	mux.HandleFunc("PUT /tickets/{id}/exempt-employee", ticketHandler.ExemptEmployee)
	mux.HandleFunc("DELETE /tickets/{id}", ticketHandler.DeleteTicket)

	server := &http.Server{
		Addr:         ":8080",
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Println("Server starting on port :8080")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
