package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"washlog/internal/core"
)

// parseDayParam reads the "date" query parameter (DD-MM-YYYY). Missing or
// malformed values fall back to today.
func parseDayParam(r *http.Request) core.Day {
	v := strings.TrimSpace(r.URL.Query().Get("date"))
	if v == "" {
		return core.Today()
	}
	day, err := core.ParseDay(v)
	if err != nil {
		return core.Today()
	}
	return day
}

// formatRupees formats paise as a Rupee string (e.g., "₹12.34").
func formatRupees(paise int64) string {
	neg := paise < 0
	if neg {
		paise = -paise
	}
	rupees := paise / 100
	rem := paise % 100
	s := strconv.FormatInt(rupees, 10) + "." + fmt.Sprintf("%02d", rem)
	if neg {
		return "-₹" + s
	}
	return "₹" + s
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
