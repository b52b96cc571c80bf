// SPDX-License-Identifier: GPL-3.0-only

package passwordcheck

import (
	"bufio"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"rentdesk-server/commons"
	"strings"
	"time"
	"unicode"
)

const DefaultRangeURL = "https://api.pwnedpasswords.com/range/"

var ErrPwned = errors.New("password has been found in data breaches (pwned); choose a different one")

// Checker enforces the password policy and, when CheckBreached is set,
// looks the password up in the Pwned Passwords k-anonymity range API.
type Checker struct {
	CheckBreached bool
	RangeURL      string
	HTTPClient    *http.Client
}

func NewChecker() *Checker {
	return &Checker{
		CheckBreached: commons.GetEnvBool("PWNED_PASSWORDS_ENABLED", true),
		RangeURL:      commons.GetEnv("PWNED_PASSWORDS_URL", DefaultRangeURL),
		HTTPClient:    &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *Checker) Validate(ctx context.Context, password string) error {
	if len([]rune(password)) < 8 {
		return errors.New("password must be at least 8 characters long")
	}
	if !hasUppercase(password) {
		return errors.New("password must contain at least one uppercase letter")
	}
	if !hasLowercase(password) {
		return errors.New("password must contain at least one lowercase letter")
	}
	if !hasDigit(password) {
		return errors.New("password must contain at least one digit")
	}
	if !hasSpecialChar(password) {
		return errors.New("password must contain at least one special character (e.g., !@#$%)")
	}

	if c.CheckBreached {
		pwned, err := c.isPwned(ctx, password)
		if err != nil {
			// The lookup is best effort; an unreachable API does not block the password.
			commons.Logger.Error("Error checking pwned passwords:", err)
		}
		if pwned {
			return ErrPwned
		}
	}

	return nil
}

func (c *Checker) isPwned(ctx context.Context, password string) (bool, error) {
	sum := sha1.Sum([]byte(password))
	hash := strings.ToUpper(hex.EncodeToString(sum[:]))
	prefix, suffix := hash[:5], hash[5:]

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.RangeURL+prefix, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return false, fmt.Errorf("HIBP API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("HIBP API returned %s", resp.Status)
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		candidate, _, found := strings.Cut(scanner.Text(), ":")
		if found && strings.TrimSpace(candidate) == suffix {
			return true, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return false, fmt.Errorf("failed to read HIBP response: %w", err)
	}
	return false, nil
}

func hasUppercase(s string) bool {
	return strings.IndexFunc(s, unicode.IsUpper) >= 0
}

func hasLowercase(s string) bool {
	return strings.IndexFunc(s, unicode.IsLower) >= 0
}

func hasDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

func hasSpecialChar(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsSymbol(r) || unicode.IsPunct(r)
	}) >= 0
}
