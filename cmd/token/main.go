package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/cmlabs-hris/daily-report-go/internal/config"
	"github.com/cmlabs-hris/daily-report-go/internal/pkg/jwt"
)

// token mints an access token signed with JWT_SECRET_KEY, for local development
// against a server that shares the same secret.
func main() {
	employeeID := flag.String("employee", "", "employee id placed in the employee_id claim")
	employeeCode := flag.String("code", "", "employee code placed in the employee_code claim")
	flag.Parse()

	if *employeeID == "" {
		log.Fatal("-employee is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	token, expiresAt, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration).
		GenerateAccessToken(*employeeID, *employeeCode)
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}

	log.Printf("token expires at %s", time.Unix(expiresAt, 0).UTC().Format(time.RFC3339))
	fmt.Println(token)
}
