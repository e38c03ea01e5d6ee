package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Read returns at most maxLines from the end of the file at path. A missing
// file yields no lines; maxLines <= 0 returns every line.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Attr is one key=value pair from a log line.
type Attr struct {
	Key   string
	Value string
}

// Entry is a parsed slog text-handler line.
type Entry struct {
	Time    time.Time
	Level   string
	Message string
	Attrs   []Attr
	Raw     string
}

// Parse splits a line written by slog.TextHandler. Lines that are not in
// that format come back with only Raw and Message set.
func Parse(line string) Entry {
	entry := Entry{Raw: line}
	pairs, ok := splitPairs(line)
	if !ok {
		entry.Message = line
		return entry
	}
	for _, p := range pairs {
		switch p.Key {
		case "time":
			if t, err := time.Parse(time.RFC3339Nano, p.Value); err == nil {
				entry.Time = t
			}
		case "level":
			entry.Level = p.Value
		case "msg":
			entry.Message = p.Value
		default:
			entry.Attrs = append(entry.Attrs, p)
		}
	}
	if entry.Level == "" && entry.Message == "" {
		entry.Message = line
	}
	return entry
}

func splitPairs(line string) ([]Attr, bool) {
	var pairs []Attr
	rest := strings.TrimSpace(line)
	for rest != "" {
		eq := strings.IndexByte(rest, '=')
		if eq <= 0 || strings.ContainsAny(rest[:eq], " \"") {
			return nil, false
		}
		key := rest[:eq]
		rest = rest[eq+1:]

		var value string
		if strings.HasPrefix(rest, "\"") {
			end := closingQuote(rest)
			if end < 0 {
				return nil, false
			}
			unquoted, err := strconv.Unquote(rest[:end+1])
			if err != nil {
				return nil, false
			}
			value = unquoted
			rest = rest[end+1:]
		} else {
			sp := strings.IndexByte(rest, ' ')
			if sp < 0 {
				sp = len(rest)
			}
			value = rest[:sp]
			rest = rest[sp:]
		}
		pairs = append(pairs, Attr{Key: key, Value: value})
		rest = strings.TrimLeft(rest, " ")
	}
	return pairs, len(pairs) > 0
}

func closingQuote(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}
