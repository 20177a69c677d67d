// Dev utility: generates an access token for manual API testing.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jacok1ng/hackyeah-2025/internal/shared/auth"
	"github.com/jacok1ng/hackyeah-2025/internal/shared/config"
)

func main() {
	riderID := flag.String("rider", "550e8400-e29b-41d4-a716-446655440000", "Rider ID (UUID)")
	email := flag.String("email", "test@example.com", "Email address")
	role := flag.String("role", "PASSENGER", "Role (PASSENGER|DRIVER|DISPATCHER|ADMIN)")
	flag.Parse()

	cfg := config.Load()
	jwtService := auth.NewJWTService(cfg.JWT)

	token, err := jwtService.GenerateToken(*riderID, *email, *role)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating JWT token: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nToken generated for %s (%s)\n\n%s\n", *riderID, *role, token)
	fmt.Printf("\nExample curl:\n")
	fmt.Printf("curl -X POST http://localhost:%d/reports \\\n", cfg.Service.Port)
	fmt.Printf("  -H 'Authorization: Bearer %s' \\\n", token)
	fmt.Printf("  -H 'Content-Type: application/json' \\\n")
	fmt.Printf("  -d '{\n")
	fmt.Printf("    \"vehicle_trip_id\": \"<trip uuid>\",\n")
	fmt.Printf("    \"category\": \"TRAFFIC_JAM\",\n")
	fmt.Printf("    \"description\": \"stuck near the bridge\"\n")
	fmt.Printf("  }'\n\n")
}
