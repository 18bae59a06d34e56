package frame

import (
	"strconv"
	"strings"
)

// parseContentLength parses a Content-Length value, trimming surrounding
// whitespace and rejecting anything strconv.ParseUint itself wouldn't
// accept (leading sign, overflow past 64 bits, non-digits).
func parseContentLength(value string) (uint64, error) {
	return strconv.ParseUint(strings.TrimSpace(value), 10, 64)
}

// splitN3 splits line on single spaces into at most 3 parts, matching
// the request-line ("method request-uri protocol") and status-line
// ("protocol status-code reason-phrase") grammars, where the third part
// may itself contain spaces (a reason phrase).
func splitN3(line string) (parts [3]string, ok bool) {
	fields := strings.SplitN(line, " ", 3)
	if len(fields) != 3 {
		return parts, false
	}

	return [3]string{fields[0], fields[1], fields[2]}, true
}

// splitHeaderLine splits "name: value" on the first colon, relaxed to
// accept any amount of whitespace -- including none -- after the colon
// rather than requiring exactly one space. The name is trimmed of
// surrounding whitespace; the value is taken as-is after left-trimming.
func splitHeaderLine(line string) (name, value string, ok bool) {
	colon := strings.IndexByte(line, ':')
	if colon == -1 {
		return "", "", false
	}

	name = strings.TrimSpace(line[:colon])
	value = strings.TrimLeft(line[colon+1:], " \t")
	if name == "" {
		return "", "", false
	}

	return name, value, true
}
