package ppm

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
)

// ErrShortLine is returned by ParseLine for an empty channel list.
var ErrShortLine = errors.New("ppm: no channel values")

// LineStats summarises a ReadLines run.
type LineStats struct {
	Frames  int
	Skipped int
}

// ParseLine parses a comma separated list of pulse widths, for example
// "1000,1500,1500,1500,1900". Channels missing from the line keep the value
// they have in base. Out-of-domain values are clamped.
func ParseLine(line string, base Frame) (Frame, error) {
	fields := strings.Split(line, ",")
	if len(fields) == 0 || strings.TrimSpace(fields[0]) == "" {
		return base, ErrShortLine
	}
	if len(fields) > NumChannels {
		fields = fields[:NumChannels]
	}

	f := base
	for i, field := range fields {
		v, err := strconv.ParseUint(strings.TrimSpace(field), 10, 32)
		if err != nil {
			return base, err
		}
		if v > 0xFFFF {
			v = 0xFFFF
		}
		f[i] = Clamp(uint16(v))
	}
	return f, nil
}

// ReadLines publishes one frame per line read from r until r is exhausted
// or ctx is cancelled. Blank lines and lines starting with '#' are ignored;
// malformed lines are skipped and counted. Cancellation is observed between
// lines.
func ReadLines(ctx context.Context, r io.Reader, s *Sampler) (LineStats, error) {
	var stats LineStats
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		f, err := ParseLine(line, s.Snapshot())
		if err != nil {
			stats.Skipped++
			continue
		}
		s.Publish(f)
		stats.Frames++
	}
	return stats, sc.Err()
}
