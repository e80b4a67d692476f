package filestore

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Health reports whether the data directory is usable. It satisfies the same
// contract as the database service so the health route works for either driver.
type Health struct {
	dir    string
	tables []string
}

func NewHealth(dir string, tables ...string) *Health {
	return &Health{dir: dir, tables: tables}
}

func (h *Health) Health() map[string]string {
	stats := map[string]string{
		"driver":   "file",
		"data_dir": h.dir,
	}

	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("data dir unavailable: %v", err)
		return stats
	}

	probe, err := os.CreateTemp(h.dir, ".health-*")
	if err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("data dir not writable: %v", err)
		return stats
	}
	probe.Close()
	os.Remove(probe.Name())

	for _, name := range h.tables {
		info, err := os.Stat(filepath.Join(h.dir, name+".json"))
		if err != nil {
			stats[name+"_bytes"] = "0"
			continue
		}
		stats[name+"_bytes"] = strconv.FormatInt(info.Size(), 10)
	}

	stats["status"] = "up"
	stats["message"] = "It's healthy"
	return stats
}

func (h *Health) Close() error {
	return nil
}
