// Package counter computes the count-up animation of the dashboard tiles.
package counter

import (
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Defaults for a tile animation.
const (
	DefaultDuration = 1200 * time.Millisecond
	DefaultInterval = 50 * time.Millisecond
)

var printer = message.NewPrinter(language.English)

// Frame is one step of an animation.
type Frame struct {
	At    time.Duration // offset from the start
	Value int
	Final bool
}

// Text returns the frame value with thousands separators.
func (f Frame) Text() string { return Format(f.Value) }

// Format renders n with thousands separators ("12,345").
func Format(n int) string {
	return printer.Sprintf("%d", n)
}

// ParseTarget extracts the number from a displayed tile value, ignoring
// every non-digit ("1,250+" is 1250). Text without digits is 0.
func ParseTarget(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			continue
		}
		if n > (math.MaxInt-9)/10 {
			return math.MaxInt
		}
		n = n*10 + int(r-'0')
	}
	return n
}

// ValueAt is floor(progress * target) where progress is elapsed/duration
// clamped to [0, 1].
func ValueAt(target int, elapsed, duration time.Duration) int {
	if duration <= 0 || elapsed >= duration {
		return target
	}
	if elapsed <= 0 {
		return 0
	}
	progress := float64(elapsed) / float64(duration)
	return int(math.Floor(progress * float64(target)))
}

// Frames lists the frames of an animation from 0 to target, one every
// interval, ending with a Final frame at duration holding exactly target.
func Frames(target int, duration, interval time.Duration) []Frame {
	if duration <= 0 {
		return []Frame{{At: 0, Value: target, Final: true}}
	}
	if interval <= 0 {
		interval = DefaultInterval
	}

	frames := make([]Frame, 0, int(duration/interval)+2)
	for at := time.Duration(0); at < duration; at += interval {
		frames = append(frames, Frame{At: at, Value: ValueAt(target, at, duration)})
	}
	frames = append(frames, Frame{At: duration, Value: target, Final: true})
	return frames
}
