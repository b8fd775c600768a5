// AngelaMos | 2026
// main.go

// hashsecret prints an argon2id hash for access.credentials entries when
// access.hashed_credentials is on. The secret is read from stdin so it stays
// out of shell history.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/carterperez-dev/templates/course-gate/internal/core"
)

func main() {
	identifier := flag.String("identifier", "", "login identifier to print alongside the hash")
	flag.Parse()

	if err := run(*identifier); err != nil {
		slog.Error("hashsecret failed", "error", err)
		os.Exit(1)
	}
}

func run(identifier string) error {
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return fmt.Errorf("read secret: %w", err)
	}

	secret := strings.TrimRight(line, "\r\n")
	if secret == "" {
		return fmt.Errorf("empty secret")
	}

	hash, err := core.HashSecret(secret)
	if err != nil {
		return err
	}

	if identifier == "" {
		fmt.Println(hash)
		return nil
	}

	fmt.Printf("- identifier: %s\n  secret: %q\n", identifier, hash)
	return nil
}
