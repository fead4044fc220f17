// Copyright (c) 2025 MinimalADB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package terminal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Transcript records the plain text of a console session so it can be
// saved to a file. It is safe for concurrent writers.
type Transcript struct {
	mu  sync.Mutex
	buf strings.Builder
}

// NewTranscript starts an empty transcript with the console banner.
func NewTranscript(banner string) *Transcript {
	t := &Transcript{}
	if banner != "" {
		t.buf.WriteString(banner)
		if !strings.HasSuffix(banner, "\n") {
			t.buf.WriteByte('\n')
		}
	}
	return t
}

func (t *Transcript) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buf.Write(p)
}

// Content returns the transcript with carriage returns folded into line
// breaks and trailing blank lines removed.
func (t *Transcript) Content() string {
	t.mu.Lock()
	raw := t.buf.String()
	t.mu.Unlock()

	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	lines := strings.Split(raw, "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// DefaultName returns terminal_output_<timestamp>.txt for now.
func DefaultName(now time.Time) string {
	stamp := strings.NewReplacer(":", "-", ".", "-").Replace(now.UTC().Format("2006-01-02T15:04:05.000Z"))
	return fmt.Sprintf("terminal_output_%s.txt", stamp)
}

// Save writes the transcript to path. An empty path saves DefaultName
// inside dir. The written path is returned.
func (t *Transcript) Save(path, dir string, now time.Time) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = filepath.Join(dir, DefaultName(now))
	}
	if err := os.WriteFile(path, []byte(t.Content()), 0o600); err != nil {
		return "", fmt.Errorf("save transcript: %w", err)
	}
	return path, nil
}
