package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/muurk/mipow/internal/identity"
	"github.com/muurk/mipow/internal/logging"
)

// LegacyFile is the alias file used by earlier mipow releases, relative to
// the home directory.
const LegacyFile = ".known_bulbs"

var legacyLine = regexp.MustCompile(`^([0-9A-Fa-f:]+) +(.*)$`)

// GetLegacyPath returns the full path to the legacy alias file.
func GetLegacyPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, LegacyFile), nil
}

// ParseKnownBulbs reads "MAC alias|alias" lines. Lines that do not match,
// and addresses that are not Playbulbs, are skipped.
func ParseKnownBulbs(r io.Reader) ([]identity.Entry, error) {
	var entries []identity.Entry

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		m := legacyLine.FindStringSubmatch(line)
		if m == nil {
			logging.Debug("Skipping malformed known_bulbs line", zap.Int("line", lineNo))
			continue
		}
		addr, err := identity.ParseAddress(m[1])
		if err != nil || !addr.IsPlaybulb() {
			logging.Debug("Skipping non-Playbulb address", zap.Int("line", lineNo), zap.String("address", m[1]))
			continue
		}
		entries = append(entries, identity.Entry{Address: addr, Aliases: identity.SplitAliases(m[2])})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read known bulbs: %w", err)
	}
	return entries, nil
}

// LoadKnownBulbs reads the legacy alias file at path. A missing file yields
// no entries.
func LoadKnownBulbs(path string) ([]identity.Entry, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return ParseKnownBulbs(f)
}
