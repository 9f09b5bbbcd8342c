/*
Package ordernum generates human-readable order numbers.

Format: DPL-YYYYMMDD-XXXXX
  - DPL: company prefix
  - YYYYMMDD: creation date in UTC
  - XXXXX: random 5-character uppercase alphanumeric suffix

Uniqueness is probabilistic (36^5 combinations per day), not guaranteed by
construction. Global uniqueness relies on the ledger's unique index on
order_number; callers retry with a fresh number on a duplicate-key error.
*/
package ordernum

import (
	"crypto/rand"
	"regexp"
	"time"
)

const (
	prefix       = "DPL"
	alphabet     = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	suffixLength = 5
	dateLayout   = "20060102"
)

var pattern = regexp.MustCompile(`^DPL-\d{8}-[0-9A-Z]{5}$`)

// Generate returns a new order number for the current UTC date.
func Generate() string {
	return prefix + "-" + time.Now().UTC().Format(dateLayout) + "-" + randomSuffix()
}

// IsValid reports whether s is structurally a valid order number.
func IsValid(s string) bool {
	return pattern.MatchString(s)
}

// ExtractDate parses the embedded date. The second return value is false
// when s is not a valid order number or the digits are not a real date.
func ExtractDate(s string) (time.Time, bool) {
	if !IsValid(s) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(dateLayout, s[4:12], time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// GenerateBatch returns n distinct order numbers, drawing fresh values and
// discarding duplicates until the target cardinality is reached.
func GenerateBatch(n int) []string {
	seen := make(map[string]struct{}, n)
	batch := make([]string, 0, n)
	for len(batch) < n {
		num := Generate()
		if _, ok := seen[num]; ok {
			continue
		}
		seen[num] = struct{}{}
		batch = append(batch, num)
	}
	return batch
}

// rejectionLimit largest multiple of len(alphabet) that fits in a byte.
// Bytes at or above it are discarded so every symbol is equally likely.
const rejectionLimit = 256 - 256%len(alphabet)

func randomSuffix() string {
	out := make([]byte, 0, suffixLength)
	buf := make([]byte, suffixLength)
	for len(out) < suffixLength {
		if _, err := rand.Read(buf); err != nil {
			// crypto/rand never fails on supported platforms
			panic(err)
		}
		for _, b := range buf {
			if int(b) >= rejectionLimit {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == suffixLength {
				break
			}
		}
	}
	return string(out)
}
