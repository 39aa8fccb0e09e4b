// internal/prog/serialport/frame.go
package serialport

import (
	"fmt"
	"strconv"
	"strings"
)

// ASCII line protocol spoken by the CV programmer:
//
//	-> R <cv>          read request
//	-> W <cv> <val>    write request
//	<- V <val>         read ok
//	<- K               write ok
//	<- N               decoder no-ack (CV not implemented)
//	<- E <code>        station error
//
// Values are decimal; every frame ends with a single CR.

func encodeRead(cv uint16) []byte {
	return []byte(fmt.Sprintf("R %d\r", cv))
}

func encodeWrite(cv uint16, value uint8) []byte {
	return []byte(fmt.Sprintf("W %d %d\r", cv, value))
}

// reply is one parsed station response.
type reply struct {
	kind  byte  // 'V', 'K', 'N' or 'E'
	value uint8 // value for 'V', error code for 'E'
}

func parseReply(line string) (reply, error) {
	line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))

	switch {
	case line == "K":
		return reply{kind: 'K'}, nil
	case line == "N":
		return reply{kind: 'N'}, nil
	case strings.HasPrefix(line, "V "):
		v, err := parseByte(line[2:])
		if err != nil {
			return reply{}, fmt.Errorf("serialport: bad value reply %q: %w", line, err)
		}
		return reply{kind: 'V', value: v}, nil
	case strings.HasPrefix(line, "E "):
		v, err := parseByte(line[2:])
		if err != nil {
			return reply{}, fmt.Errorf("serialport: bad error reply %q: %w", line, err)
		}
		return reply{kind: 'E', value: v}, nil
	default:
		return reply{}, fmt.Errorf("serialport: malformed reply %q", line)
	}
}

func parseByte(s string) (uint8, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 8)
	if err != nil {
		return 0, err
	}
	return uint8(v), nil
}
