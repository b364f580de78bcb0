// Command hashpw generates a bcrypt hash for the admin password.
//
// Usage: hashpw [-cost N] <password>
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/spec-kit/blog-service/internal/auth"
)

func main() {
	cost := flag.Int("cost", 10, "bcrypt cost")
	flag.Parse()

	password := flag.Arg(0)
	if password == "" {
		fmt.Fprintln(os.Stderr, "Error: please provide a password as an argument")
		fmt.Fprintln(os.Stderr, "Usage: hashpw [-cost N] <password>")
		os.Exit(1)
	}

	hash, err := auth.HashPassword(password, *cost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Add this to your .env file:")
	fmt.Printf("ADMIN_PASSWORD_HASH=%q\n", hash)
}
