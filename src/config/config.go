package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

// RaffleSize returns N, the fixed number of tickets in the raffle.
func RaffleSize() int {
	return intEnv("RAFFLE_SIZE", 500)
}

// TicketPrice returns the unit price per ticket in whole currency units.
func TicketPrice() int {
	return intEnv("TICKET_PRICE", 500)
}

func PrizeAmount() string {
	if v := os.Getenv("PRIZE_AMOUNT"); v != "" {
		return v
	}
	return "10,000 MXN"
}

func DrawDate() string {
	return os.Getenv("DRAW_DATE")
}

// AdminEmails returns the administrator allow-list. A principal is an
// administrator iff its email appears here.
func AdminEmails() []string {
	raw := os.Getenv("ADMIN_EMAILS")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	emails := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			emails = append(emails, p)
		}
	}
	return emails
}

func IsAdminEmail(email string) bool {
	for _, e := range AdminEmails() {
		if strings.EqualFold(e, email) {
			return true
		}
	}
	return false
}

func ProofsBucket() string {
	if v := os.Getenv("S3_PROOFS_BUCKET"); v != "" {
		return v
	}
	return "payment-proofs"
}

func intEnv(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	atoi, err := strconv.Atoi(v)
	if err != nil || atoi < 1 {
		return fallback
	}
	return atoi
}
