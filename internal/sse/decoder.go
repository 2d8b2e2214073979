// Package sse decodes server-sent event streams.
//
// It implements the subset of the SSE wire format the platform's notification
// stream uses: id, event and data fields, comment lines, and blank-line event
// dispatch. Retry hints are parsed but reconnect policy belongs to the caller.
package sse

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
	"time"
)

// Event is one decoded server-sent event.
type Event struct {
	ID   string
	Name string
	Data []byte
}

// Decoder reads events off a long-lived stream.
type Decoder struct {
	r *bufio.Reader

	// retry holds the server's most recent reconnection-time hint, if any.
	retry time.Duration
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// Retry returns the server-suggested reconnection delay, or zero when the
// server never sent one.
func (d *Decoder) Retry() time.Duration {
	return d.retry
}

// Next blocks until a complete event has been read and returns it. It returns
// io.EOF when the stream ends cleanly and the underlying read error otherwise.
// Events with no data are skipped, matching EventSource behavior.
func (d *Decoder) Next() (Event, error) {
	var (
		ev      Event
		data    [][]byte
		sawData bool
	)

	flush := func() (Event, bool) {
		if !sawData {
			return Event{}, false
		}
		ev.Data = bytes.Join(data, []byte("\n"))
		return ev, true
	}

	for {
		line, err := d.r.ReadBytes('\n')
		if err != nil {
			if err == io.EOF && len(line) == 0 {
				if out, ok := flush(); ok {
					return out, nil
				}
				return Event{}, io.EOF
			}
			if err != io.EOF {
				return Event{}, err
			}
		}
		line = bytes.TrimRight(line, "\r\n")

		// Blank line dispatches the accumulated event.
		if len(line) == 0 {
			if out, ok := flush(); ok {
				return out, nil
			}
			ev = Event{}
			data = data[:0]
			sawData = false
			continue
		}

		// Comment lines keep the connection alive and carry no payload.
		if line[0] == ':' {
			continue
		}

		field, value := splitField(line)
		switch string(field) {
		case "id":
			ev.ID = string(value)
		case "event":
			ev.Name = string(value)
		case "data":
			data = append(data, append([]byte(nil), value...))
			sawData = true
		case "retry":
			if ms, err := strconv.Atoi(string(value)); err == nil && ms >= 0 {
				d.retry = time.Duration(ms) * time.Millisecond
			}
		}
	}
}

// splitField splits "field: value" per the SSE grammar: the first colon ends
// the field name and a single leading space in the value is stripped.
func splitField(line []byte) (field, value []byte) {
	i := bytes.IndexByte(line, ':')
	if i < 0 {
		return line, nil
	}
	field, value = line[:i], line[i+1:]
	if len(value) > 0 && value[0] == ' ' {
		value = value[1:]
	}
	return field, value
}
