package commands

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/fatih/color"
)

// healthOutput mirrors the body of GET /health.
type healthOutput struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// RunHealth queries GET /health on a running vault and prints the result.
// Returns an error when the vault is unreachable or does not report itself healthy.
func RunHealth(ctx context.Context, client *http.Client, writer io.Writer, baseURL, format string) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	var health healthOutput
	statusCode, err := getJSON(ctx, client, baseURL, "/health", &health)
	if err != nil {
		return err
	}

	healthy := statusCode == http.StatusOK && health.Status == "healthy"

	if format == "json" {
		if err := writeJSON(writer, health); err != nil {
			return err
		}
	} else {
		if err := writeHealthText(writer, health, healthy); err != nil {
			return err
		}
	}

	if !healthy {
		return fmt.Errorf("vault is unhealthy (http status %d)", statusCode)
	}
	return nil
}

func writeHealthText(w io.Writer, health healthOutput, healthy bool) error {
	status := color.New(color.FgGreen, color.Bold)
	if !healthy {
		status = color.New(color.FgRed, color.Bold)
	}

	if _, err := status.Fprintf(w, "%s", health.Status); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, " %s %s\n", health.Service, health.Version)
	return err
}
