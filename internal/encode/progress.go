package encode

import (
	"regexp"
	"strconv"
)

var framePattern = regexp.MustCompile(`frame=\s*(\d+)`)

// Parser incrementally scans the encoder's output stream for frame= markers.
// Bytes accumulate until a line terminator (\r or \n); each completed line
// is scanned once and discarded. The parser copes with output arriving one
// byte at a time and with arbitrary non-matching lines.
type Parser struct {
	line []byte
	emit func(relFrame int64)
}

// NewParser returns a parser that calls emit with each relative frame number
// found in the stream.
func NewParser(emit func(relFrame int64)) *Parser {
	return &Parser{emit: emit}
}

// Consume feeds the next chunk of raw output into the parser.
func (p *Parser) Consume(chunk []byte) {
	for _, b := range chunk {
		if b == '\r' || b == '\n' {
			p.flush()
			continue
		}
		p.line = append(p.line, b)
	}
}

func (p *Parser) flush() {
	if len(p.line) == 0 {
		return
	}
	if m := framePattern.FindSubmatch(p.line); m != nil {
		if frame, err := strconv.ParseInt(string(m[1]), 10, 64); err == nil {
			p.emit(frame)
		}
	}
	p.line = p.line[:0]
}
