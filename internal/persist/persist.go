// Package persist implements the solver's only long-lived on-disk
// artifact: a deterministic, tab-separated text serialization of an
// infoset map. The format must stay bit-exact across implementations to
// support warm starts, so unlike the teacher's JSON checkpoint codec this
// is a small hand-rolled line format — but the atomic-write mechanics
// (temp file + rename) and tolerant-skip-malformed-line philosophy are
// ported from the teacher's checkpoint.go.
package persist

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/lox/cfrsolver/internal/infoset"
)

const floatPrecision = 10

// Save truncates and rewrites path with one line per infoset:
// "<key>\t<visit_count>\t<r_0>,<r_1>,...\t<s_0>,<s_1>,...\n". Writes go
// through a temp file and an atomic rename so a crash mid-write never
// leaves a half-written table in place.
func Save(path string, m infoset.Map) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("persist: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	for key, e := range m {
		if _, err := fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", key, e.VisitCount, joinFloats(e.CumulativeRegrets), joinFloats(e.CumulativeStrategy)); err != nil {
			tmp.Close()
			return fmt.Errorf("persist: write entry for key %q: %w", key, err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("persist: flush: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("persist: close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("persist: rename into place: %w", err)
	}
	return nil
}

// Load reads an infoset map from path, logging a diagnostic for and
// skipping each malformed line, and continuing otherwise. A missing file
// is not an error: it logs a warning and returns an empty map, i.e. "not
// loaded". The primary field delimiter is tab; a line that fails to split
// into the right field count on tab is retried with ';' for backward
// compatibility with historical format drift (§9 of the design notes).
func Load(path string, logger zerolog.Logger) (infoset.Map, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("path", path).Msg("infoset table file not found; starting from an empty table")
			return infoset.Map{}, nil
		}
		return nil, fmt.Errorf("persist: open %s: %w", path, err)
	}
	defer f.Close()

	m := infoset.Map{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" {
			continue
		}
		e, key, usedSemicolon, err := parseLine(line)
		if err != nil {
			logger.Error().Int("line", lineNum).Err(err).Msg("skipping malformed infoset line")
			continue
		}
		if usedSemicolon {
			logger.Warn().Int("line", lineNum).Msg("parsed infoset line using ';' delimiter fallback")
		}
		m[key] = e
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("persist: read %s: %w", path, err)
	}
	return m, nil
}

func parseLine(line string) (*infoset.InformationSet, string, bool, error) {
	fields := strings.Split(line, "\t")
	usedSemicolon := false
	if len(fields) != 4 {
		if alt := splitLastN(line, ";", 3); alt != nil {
			fields = alt
			usedSemicolon = true
		} else {
			return nil, "", false, fmt.Errorf("expected 4 fields, got %d", len(fields))
		}
	}

	key := fields[0]
	visitCount, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, "", false, fmt.Errorf("malformed visit count %q: %w", fields[1], err)
	}
	regrets, err := parseFloats(fields[2])
	if err != nil {
		return nil, "", false, fmt.Errorf("malformed regrets: %w", err)
	}
	strategy, err := parseFloats(fields[3])
	if err != nil {
		return nil, "", false, fmt.Errorf("malformed strategy: %w", err)
	}
	if len(regrets) != len(strategy) {
		return nil, "", false, fmt.Errorf("regret/strategy length mismatch: %d vs %d", len(regrets), len(strategy))
	}

	return &infoset.InformationSet{
		Key:                key,
		CumulativeRegrets:  regrets,
		CumulativeStrategy: strategy,
		VisitCount:         visitCount,
	}, key, usedSemicolon, nil
}

// splitLastN splits s on sep into exactly n+1 fields, treating everything
// before the nth-from-last occurrence of sep as the first field. Unlike
// strings.Split, it tolerates sep appearing inside that first field — needed
// because infoset.Key() embeds a literal ';' in every key, so a naive
// whole-line split on ';' never yields exactly 4 fields for real data.
// Returns nil if s contains fewer than n occurrences of sep.
func splitLastN(s, sep string, n int) []string {
	parts := strings.Split(s, sep)
	if len(parts) < n+1 {
		return nil
	}
	head := strings.Join(parts[:len(parts)-n], sep)
	return append([]string{head}, parts[len(parts)-n:]...)
}

func parseFloats(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func joinFloats(vals []float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.FormatFloat(v, 'f', floatPrecision, 64)
	}
	return strings.Join(parts, ",")
}
