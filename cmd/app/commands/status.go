package commands

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/fatih/color"
)

// statusOutput mirrors the body of GET /metrics on the API server.
type statusOutput struct {
	EntriesStored int64 `json:"entries_stored"`
	TTLSeconds    int64 `json:"ttl_seconds"`
}

// RunStatus queries GET /metrics on a running vault and prints the live record count and TTL.
func RunStatus(ctx context.Context, client *http.Client, writer io.Writer, baseURL, format string) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	var status statusOutput
	statusCode, err := getJSON(ctx, client, baseURL, "/metrics", &status)
	if err != nil {
		return err
	}
	if statusCode != http.StatusOK {
		return fmt.Errorf("vault returned http status %d", statusCode)
	}

	if format == "json" {
		return writeJSON(writer, status)
	}

	label := color.New(color.FgCyan)
	if _, err := label.Fprint(writer, "entries stored: "); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "%d\n", status.EntriesStored); err != nil {
		return err
	}
	if _, err := label.Fprint(writer, "ttl seconds:    "); err != nil {
		return err
	}
	_, err = fmt.Fprintf(writer, "%d\n", status.TTLSeconds)
	return err
}
