// Package storage persists formatted output.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/researchaccelerator-hub/ytstats/format"
	"github.com/rs/zerolog/log"
)

// ErrAppendUnsupported is returned when appending to a format that cannot be concatenated
var ErrAppendUnsupported = errors.New("appending to JSON files is not supported")

// StorageProvider is the file surface used to write output
type StorageProvider interface {
	WriteFile(path string, data []byte) error
	AppendToFile(path string, data []byte) error
	FileExists(path string) (bool, error)
}

// LocalStorageProvider is the local file system implementation of StorageProvider
type LocalStorageProvider struct{}

func NewLocalStorageProvider() *LocalStorageProvider {
	return &LocalStorageProvider{}
}

func (p *LocalStorageProvider) WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (p *LocalStorageProvider) AppendToFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return err
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.Write(data)
	return err
}

func (p *LocalStorageProvider) FileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Save writes data to path. With appendMode the data goes after a dated separator at the end
// of the file; otherwise the file is replaced.
func Save(provider StorageProvider, path, data, formatName string, appendMode bool, now time.Time) error {
	if !appendMode {
		if err := provider.WriteFile(path, []byte(data)); err != nil {
			return fmt.Errorf("failed to save stats to %s: %w", path, err)
		}
		log.Debug().Str("path", path).Int("bytes", len(data)).Msg("Saved stats")
		return nil
	}

	if formatName == format.JSON {
		return ErrAppendUnsupported
	}

	payload := format.Separator(formatName, now) + data
	if err := provider.AppendToFile(path, []byte(payload)); err != nil {
		return fmt.Errorf("failed to append stats to %s: %w", path, err)
	}
	log.Debug().Str("path", path).Int("bytes", len(payload)).Msg("Appended stats")
	return nil
}
