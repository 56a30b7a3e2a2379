// Package logx wraps github.com/charmbracelet/log with the per-worker
// leveled logger that replaces the original tool's hand-indented
// mpi_print_log output: one log file per rank, named "<prefix>_<rank:03d>.log".
package logx

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
)

// New opens (creating if absent) "<prefix>_<rank:03d>.log" and returns a
// logger writing to it, tagged with the worker's rank.
func New(prefix string, rank int) (*log.Logger, func(), error) {
	path := fmt.Sprintf("%s_%03d.log", prefix, rank)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("logx: opening %s: %w", path, err)
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          fmt.Sprintf("rank-%03d", rank),
	})
	return logger, func() { f.Close() }, nil
}
