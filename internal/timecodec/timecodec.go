// Package timecodec converts between practice-segment "S.FF" text and decimal seconds.
package timecodec

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FramesPerSecond is the frame rate the practice-segment timer counts in.
const FramesPerSecond = 60

// frameEpsilon absorbs float error so that Encode(Decode(s)) == s.
const frameEpsilon = 1e-6

// FormatError reports practice-segment text that cannot be decoded.
type FormatError struct {
	Text   string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid practice segment time %q: %s", e.Text, e.Reason)
}

// Decode parses "S.FF" (FF = frames, 0-59) into decimal seconds.
// The text is read as a decimal number and normalised to two fractional
// digits first, so "12.5" means 12 seconds and 50 frames.
func Decode(text string) (float64, error) {
	trimmed := strings.TrimSpace(text)
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &FormatError{Text: text, Reason: "not a number"}
	}
	if v < 0 {
		return 0, &FormatError{Text: text, Reason: "negative time"}
	}
	normalized := strconv.FormatFloat(v, 'f', 2, 64)
	secPart, framePart, _ := strings.Cut(normalized, ".")
	seconds, err := strconv.ParseInt(secPart, 10, 64)
	if err != nil {
		return 0, &FormatError{Text: text, Reason: "seconds out of range"}
	}
	frames, err := strconv.Atoi(framePart)
	if err != nil {
		return 0, &FormatError{Text: text, Reason: "bad frame count"}
	}
	if frames >= FramesPerSecond {
		return 0, &FormatError{Text: text, Reason: fmt.Sprintf("frame count %d out of range 0-%d", frames, FramesPerSecond-1)}
	}
	return float64(seconds) + float64(frames)/FramesPerSecond, nil
}

// Encode renders decimal seconds as "S.FF", truncating to whole frames.
func Encode(v float64) string {
	seconds := math.Floor(v)
	frames := math.Floor((v-seconds)*FramesPerSecond + frameEpsilon)
	if frames >= FramesPerSecond {
		seconds++
		frames = 0
	}
	return fmt.Sprintf("%d.%02d", int64(seconds), int64(frames))
}

// DecodeOptional is Decode with nil passed through as missing.
func DecodeOptional(text *string) (*float64, error) {
	if text == nil {
		return nil, nil
	}
	v, err := Decode(*text)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// EncodeOptional is Encode with nil passed through as missing.
func EncodeOptional(v *float64) *string {
	if v == nil {
		return nil
	}
	s := Encode(*v)
	return &s
}
