package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateRunID generates a run ID with a timestamp prefix and a short
// random suffix, e.g. "run-20260301-142255-9f2c81d4".
func GenerateRunID() string {
	timestamp := time.Now().Format("20060102-150405")
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("run-%s-%s", timestamp, suffix)
}

// GenerateTraceID generates a globally unique trace ID.
func GenerateTraceID() string {
	return uuid.NewString()
}
