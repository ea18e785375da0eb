package config

import (
	"fmt"
	"math"
	"net/url"
	"os"
	"strconv"
	"strings"
)

type SQLiteConfig struct {
	CacheSizeKB   int    // negative = KiB, positive = pages
	WALMode       bool   // Write-Ahead Logging
	SyncLevel     string // "OFF", "NORMAL", "FULL", "EXTRA"
	BusyTimeoutMS int
}

func GetSQLiteConfig() SQLiteConfig {
	cfg := SQLiteConfig{
		CacheSizeKB:   -16000,
		WALMode:       true,
		SyncLevel:     "NORMAL",
		BusyTimeoutMS: 5000,
	}

	if v, ok := os.LookupEnv("SQLITE_CACHE_SIZE"); ok {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.CacheSizeKB = i
		}
	} else if ramMB := detectRAM(); ramMB > 0 {
		cfg.CacheSizeKB = calculateCacheSize(ramMB)
	}

	if v, ok := os.LookupEnv("SQLITE_WAL_MODE"); ok {
		cfg.WALMode = strings.ToLower(v) == "true" || v == "1"
	}

	if v, ok := os.LookupEnv("SQLITE_SYNC_LEVEL"); ok {
		v = strings.ToUpper(v)
		if v == "OFF" || v == "NORMAL" || v == "FULL" || v == "EXTRA" {
			cfg.SyncLevel = v
		}
	}

	if v, ok := os.LookupEnv("SQLITE_BUSY_TIMEOUT_MS"); ok {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			cfg.BusyTimeoutMS = i
		}
	}

	return cfg
}

// DSN appends the connection parameters understood by mattn/go-sqlite3 to
// base. Parameters go in the DSN rather than through PRAGMA statements so
// that every pooled connection gets them. Foreign keys are always on.
func (c SQLiteConfig) DSN(base string) string {
	params := url.Values{}
	params.Set("_foreign_keys", "on")
	params.Set("_busy_timeout", strconv.Itoa(c.BusyTimeoutMS))
	params.Set("_synchronous", c.SyncLevel)
	params.Set("_cache_size", fmt.Sprintf("%d", c.CacheSizeKB))
	if c.WALMode {
		params.Set("_journal_mode", "WAL")
	}

	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + params.Encode()
}

func calculateCacheSize(ramMB int) int {
	cacheMB := int(math.Floor(float64(ramMB) * 0.02))
	cacheMB = max(cacheMB, 8)
	cacheMB = min(cacheMB, 256)
	return -cacheMB * 1024
}

func detectRAM() int {
	if v, ok := os.LookupEnv("SYSTEM_RAM_MB"); ok {
		if mb, err := strconv.Atoi(v); err == nil && mb > 0 {
			return mb
		}
	}

	data, err := os.ReadFile("/proc/meminfo")
	if err != nil {
		return 0
	}
	for line := range strings.SplitSeq(string(data), "\n") {
		if !strings.HasPrefix(line, "MemTotal:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) >= 2 {
			if kb, err := strconv.ParseInt(fields[1], 10, 64); err == nil {
				return int(kb / 1024)
			}
		}
	}
	return 0
}
