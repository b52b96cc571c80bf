// SPDX-License-Identifier: GPL-3.0-only

package mpesa

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const DefaultRegion = "KE"

// NormalizePhoneNumber converts a local or international number into the
// country-code-prefixed digits the API expects, e.g. 0712345678 -> 254712345678.
func NormalizePhoneNumber(raw, region string) (string, error) {
	if region == "" {
		region = DefaultRegion
	}
	num, err := phonenumbers.Parse(strings.TrimSpace(raw), region)
	if err != nil {
		return "", fmt.Errorf("parse phone number %q: %w", raw, err)
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", fmt.Errorf("invalid phone number %q", raw)
	}
	return strings.TrimPrefix(phonenumbers.Format(num, phonenumbers.E164), "+"), nil
}
