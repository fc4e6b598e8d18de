package trace

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Format represents the output format for trace events.
type Format uint8

const (
	FormatAuto   Format = iota // from the output file extension
	FormatText                 // one logfmt-like line per event
	FormatNDJSON               // newline-delimited JSON
)

// ParseFormat converts a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	}
	return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson)", s)
}

// FormatEvent renders ev as one newline-terminated line.
func FormatEvent(ev *Event, format Format) []byte {
	if format == FormatNDJSON {
		return appendJSON(nil, ev)
	}
	return appendText(nil, ev)
}

type jsonEvent struct {
	Time     string            `json:"time"`
	Seq      uint64            `json:"seq"`
	Kind     string            `json:"kind"`
	Scope    string            `json:"scope"`
	SpanID   uint64            `json:"span_id,omitempty"`
	ParentID uint64            `json:"parent_id,omitempty"`
	Name     string            `json:"name"`
	ElapsedU int64             `json:"elapsed_us,omitempty"`
	Detail   string            `json:"detail,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
}

func appendJSON(dst []byte, ev *Event) []byte {
	data, err := json.Marshal(jsonEvent{
		Time:     ev.Time.Format(time.RFC3339Nano),
		Seq:      ev.Seq,
		Kind:     ev.Kind.String(),
		Scope:    ev.Scope.String(),
		SpanID:   ev.SpanID,
		ParentID: ev.ParentID,
		Name:     ev.Name,
		ElapsedU: ev.Elapsed.Microseconds(),
		Detail:   ev.Detail,
		Extra:    ev.Extra,
	})
	if err != nil {
		// map[string]string и строки всегда сериализуются
		return dst
	}
	return append(append(dst, data...), '\n')
}

// appendText пишет: 15:04:05.000 #12 stage  end   parse 0.412ms detail="3 nodes" nodes=3
func appendText(dst []byte, ev *Event) []byte {
	dst = ev.Time.AppendFormat(dst, "15:04:05.000")
	dst = append(dst, " #"...)
	dst = strconv.AppendUint(dst, ev.Seq, 10)
	dst = fmt.Appendf(dst, " %-6s %-9s ", ev.Scope, ev.Kind)
	dst = append(dst, ev.Name...)
	if ev.Kind == KindSpanEnd {
		dst = fmt.Appendf(dst, " %.3fms", float64(ev.Elapsed)/float64(time.Millisecond))
	}
	if ev.Detail != "" {
		dst = append(dst, " detail="...)
		dst = strconv.AppendQuote(dst, ev.Detail)
	}
	for _, k := range slices.Sorted(maps.Keys(ev.Extra)) {
		dst = append(dst, ' ')
		dst = append(dst, k...)
		dst = append(dst, '=')
		dst = appendValue(dst, ev.Extra[k])
	}
	return append(dst, '\n')
}

// appendValue quotes v only when it would break the key=value layout.
func appendValue(dst []byte, v string) []byte {
	if v == "" || strings.ContainsAny(v, " \t\n\"=") {
		return strconv.AppendQuote(dst, v)
	}
	return append(dst, v...)
}
