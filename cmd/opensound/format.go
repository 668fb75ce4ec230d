package main

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var kindWords = map[string]string{
	"assetpack": "asset pack",
	"object":    "object",
}

// kindLabel renders package kinds and build statuses for tables.
func kindLabel(value string) string {
	value = strings.TrimSpace(value)
	if words, ok := kindWords[value]; ok {
		value = words
	}
	value = strings.ReplaceAll(value, "_", " ")
	return cases.Title(language.Und).String(value)
}

func humanBytes(v int64) string {
	const unit = 1024
	if v < unit {
		return fmt.Sprintf("%d B", v)
	}
	div := int64(unit)
	exp := 0
	for n := v / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	value := float64(v) / float64(div)
	return fmt.Sprintf("%.1f %ciB", value, "KMGTPEZY"[exp])
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return d.Round(time.Second).String()
}
