// Package textutil provides byte-level text utilities for
// terminator-preserving line splitting.
package textutil

import "bytes"

// SplitLines splits data into lines with their terminators kept. "\n",
// "\r\n" and a bare "\r" each terminate a line, so a CRLF file produces
// lines ending in "\r\n" and a stray CR produces its own line that does not
// end in a newline. A non-empty trailing fragment without any terminator is
// returned as the final line.
func SplitLines(data []byte) [][]byte {
	var lines [][]byte

	start := 0

	for i := 0; i < len(data); i++ {
		switch data[i] {
		case '\n':
			lines = append(lines, data[start:i+1])
			start = i + 1
		case '\r':
			end := i + 1
			if end < len(data) && data[end] == '\n' {
				end++
				i++
			}

			lines = append(lines, data[start:end])
			start = end
		}
	}

	if start < len(data) {
		lines = append(lines, data[start:])
	}

	return lines
}

// EndsInNewline reports whether line is terminated by a line feed.
// A bare-CR line and an unterminated final line both report false.
func EndsInNewline(line []byte) bool {
	return len(line) > 0 && line[len(line)-1] == '\n'
}

// TrimNewline removes a single trailing "\n" from line. A carriage return
// left behind by a CRLF terminator is deliberately kept so that CR checks
// still see it.
func TrimNewline(line []byte) []byte {
	return bytes.TrimSuffix(line, []byte{'\n'})
}
