// Command mktoken mints a signed development JWT for exercising the API
// locally. Token issuance in production lives in the identity provider.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"condo-portal/internal/auth"
)

func main() {
	var (
		secret  = flag.String("secret", os.Getenv("AUTH_JWT_SECRET"), "HS256 signing secret")
		subject = flag.String("sub", "", "subject (resident id, uuid)")
		role    = flag.String("role", string(auth.RoleResident), "role: resident, director or admin")
		name    = flag.String("name", "Dev User", "display name")
		ttl     = flag.Duration("ttl", 24*time.Hour, "token lifetime")
	)
	flag.Parse()

	if *secret == "" {
		log.Fatal("-secret or AUTH_JWT_SECRET is required")
	}
	if *subject == "" {
		log.Fatal("-sub is required")
	}
	if _, ok := auth.NormalizeRole(*role); !ok {
		log.Fatalf("invalid role %q", *role)
	}

	now := time.Now()
	claims := auth.Claims{
		Role: *role,
		Name: *name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   *subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(*ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(*secret))
	if err != nil {
		log.Fatalf("sign token: %v", err)
	}
	fmt.Println(signed)
}
