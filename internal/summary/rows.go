package summary

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// maxLineSize bounds a single physical line of the summary file.
const maxLineSize = 1 << 20

// Row is one record of the summary file. A blank line is a Row with no cells.
type Row []string

// Rows is the whole summary file in file order.
type Rows []Row

// fieldState is where the record parser is within the current field.
type fieldState int

const (
	startField fieldState = iota
	inField
	inQuotedField
	quoteInQuotedField
)

// recordParser accumulates one comma-delimited record across physical lines.
// A quote only opens a quoted field as the first character of the field;
// elsewhere it is literal text.
type recordParser struct {
	state  fieldState
	fields []string
	field  strings.Builder
}

// feed consumes one physical line and reports whether the record is complete.
func (p *recordParser) feed(line string) bool {
	for _, c := range line {
		switch p.state {
		case startField:
			switch c {
			case '"':
				p.state = inQuotedField
			case ',':
				p.save()
			default:
				p.field.WriteRune(c)
				p.state = inField
			}
		case inField:
			if c == ',' {
				p.save()
				p.state = startField
				continue
			}
			p.field.WriteRune(c)
		case inQuotedField:
			if c == '"' {
				p.state = quoteInQuotedField
				continue
			}
			p.field.WriteRune(c)
		case quoteInQuotedField:
			switch c {
			case '"':
				p.field.WriteRune(c)
				p.state = inQuotedField
			case ',':
				p.save()
				p.state = startField
			default:
				// text after a closing quote joins the field
				p.field.WriteRune(c)
				p.state = inField
			}
		}
	}

	if p.state == inQuotedField {
		p.field.WriteByte('\n')
		return false
	}
	return true
}

func (p *recordParser) save() {
	p.fields = append(p.fields, p.field.String())
	p.field.Reset()
}

// record finishes the pending field and returns the record, resetting p.
func (p *recordParser) record() Row {
	p.save()
	row := Row(p.fields)
	p.fields = nil
	p.state = startField
	return row
}

// ReadRows reads comma-delimited records from r. Blank lines are kept as
// empty rows because the separator row is one. A quoted field still open at
// the end of input is returned as read.
func ReadRows(r io.Reader) (Rows, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var (
		rows    Rows
		parser  recordParser
		pending bool
	)

	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")

		if !pending && line == "" {
			rows = append(rows, Row{})
			continue
		}

		if pending = !parser.feed(line); !pending {
			rows = append(rows, parser.record())
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read summary: %w", err)
	}

	if pending {
		// drop the newline added while waiting for the closing quote
		text := strings.TrimSuffix(parser.field.String(), "\n")
		parser.field.Reset()
		parser.field.WriteString(text)
		rows = append(rows, parser.record())
	}

	return rows, nil
}
