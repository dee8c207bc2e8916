package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/capitalsync-io/capsync/internal/models"
)

// promptForSecret reads the account secret without echo.
func promptForSecret() (string, error) {
	fmt.Print("Password: ")

	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	return string(secret), nil
}

// promptForCode is the interactive TwoFactorCodeProvider: it blocks
// until the user types the code the dashboard sent out of band.
func promptForCode(method models.DeliveryMethod) (string, error) {
	fmt.Printf("Enter the code sent to you via %s: ", method)

	reader := bufio.NewReader(os.Stdin)
	code, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read code: %w", err)
	}

	return strings.TrimSpace(code), nil
}
