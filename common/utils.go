package common

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// UserAgent is sent with every plain HTTP request the tool makes
const UserAgent = "Mozilla/5.0 ytstats/1.0"

// GenerateRunID returns a unique identifier for one aggregation run.
func GenerateRunID() string {
	return uuid.New().String()
}

// FetchURL downloads the body of url and returns it.
func FetchURL(ctx context.Context, url string) ([]byte, error) {
	log.Info().Str("url", url).Msg("Downloading remote file")

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	log.Debug().Str("url", url).Int("bytes", len(body)).Msg("Remote file downloaded")
	return body, nil
}

// ReadIDsFromFile reads identifiers from a file, one per line.
// It ignores empty lines and lines starting with a '#' character (comments).
func ReadIDsFromFile(filename string) ([]string, error) {
	log.Debug().Str("filename", filename).Msg("Reading identifiers from file")

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var ids []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			ids = append(ids, line)
		}
	}

	log.Debug().Int("id_count", len(ids)).Msg("Identifiers read from file")
	return ids, nil
}

// SplitList splits comma separated values, trimming blanks and dropping empty entries.
func SplitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
