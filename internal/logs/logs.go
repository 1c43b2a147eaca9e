package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MainLogName is the rolling log every sleuth invocation appends to.
const MainLogName = "sleuth.log"

const (
	runLogPrefix = "sleuth-run-"
	runLogSuffix = ".log"
)

// RunLogPattern matches per-run log files, for retention pruning.
const RunLogPattern = runLogPrefix + "*" + runLogSuffix

// RunLogName returns the per-run log file name for a short run identifier.
func RunLogName(shortRunID string) string {
	return runLogPrefix + shortRunID + runLogSuffix
}

// Locate resolves which log file to read. An empty run id selects the main
// log; otherwise the per-run logs under dir are matched against the id, which
// must identify exactly one run. Full run ids work because the file name
// carries their leading segment.
func Locate(dir, runID string) (string, error) {
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return filepath.Join(dir, MainLogName), nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read log directory: %w", err)
	}
	var matches []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, runLogPrefix) || !strings.HasSuffix(name, runLogSuffix) {
			continue
		}
		short := strings.TrimSuffix(strings.TrimPrefix(name, runLogPrefix), runLogSuffix)
		if short == "" {
			continue
		}
		if strings.HasPrefix(short, runID) || strings.HasPrefix(runID, short) {
			matches = append(matches, name)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no run log matching %q in %s", runID, dir)
	case 1:
		return filepath.Join(dir, matches[0]), nil
	default:
		return "", fmt.Errorf("run id %q matches %d run logs; use a longer prefix", runID, len(matches))
	}
}

// LastLines returns up to limit trailing lines of the file plus the offset a
// follower should resume from. A missing file yields no lines and offset 0; a
// non-positive limit skips straight to the end of the file.
func LastLines(path string, limit int) ([]string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	if limit <= 0 {
		end, err := file.Seek(0, io.SeekEnd)
		if err != nil {
			return nil, 0, fmt.Errorf("seek log: %w", err)
		}
		return nil, end, nil
	}

	scanner := newLineScanner(file)
	ring := make([]string, limit)
	count := 0
	next := 0
	for scanner.Scan() {
		ring[next] = scanner.Text()
		next = (next + 1) % limit
		if count < limit {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("read log: %w", err)
	}
	end, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, 0, fmt.Errorf("seek log: %w", err)
	}

	lines := make([]string, count)
	if count == limit {
		for i := 0; i < count; i++ {
			lines[i] = ring[(next+i)%limit]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, end, nil
}

// Follow copies lines appended after offset to out until ctx ends. The file
// may be missing; polling continues until it appears, and a file that shrank
// since the last read is reread from the start.
func Follow(ctx context.Context, path string, offset int64, out io.Writer) error {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		lines, next, err := readAppended(path, offset)
		if err != nil {
			return err
		}
		for _, line := range lines {
			if _, err := fmt.Fprintln(out, line); err != nil {
				return err
			}
		}
		offset = next

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func readAppended(path string, offset int64) ([]string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, offset, nil
		}
		return nil, offset, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	size, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, offset, fmt.Errorf("seek log: %w", err)
	}
	if offset > size {
		offset = 0
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return nil, offset, fmt.Errorf("seek log: %w", err)
	}

	scanner := newLineScanner(file)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, offset, fmt.Errorf("read log: %w", err)
	}
	end, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, offset, fmt.Errorf("seek log: %w", err)
	}
	return lines, end, nil
}

func newLineScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return scanner
}
