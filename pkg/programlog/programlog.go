// Package programlog parses Solana transaction log messages and attributes each
// line to the program that emitted it.
//
// The runtime writes an invoke line when a program starts, then the program's own
// "Program log:" and "Program data:" lines, then a consumed-compute-units line and
// finally success or failure. Inner invocations nest with a higher stack height.
// The parser keeps an invoke stack so every line is tied to the program on top.
//
// Example usage:
//
//	p := programlog.NewParser()
//	for _, msg := range p.ProgramMessages(programID, logs) {
//	    fmt.Println(msg)
//	}
package programlog

import (
	"encoding/base64"
	"regexp"
	"strconv"
)

// Kind classifies a log line.
type Kind int

const (
	// KindUnknown is an unrecognized line.
	KindUnknown Kind = iota
	// KindInvoke is "Program X invoke [N]".
	KindInvoke
	// KindSuccess is "Program X success".
	KindSuccess
	// KindFailed is "Program X failed: reason".
	KindFailed
	// KindData is "Program data: BASE64".
	KindData
	// KindLog is "Program log: MESSAGE".
	KindLog
	// KindComputeUnits is "Program X consumed N of M compute units".
	KindComputeUnits
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindInvoke:
		return "Invoke"
	case KindSuccess:
		return "Success"
	case KindFailed:
		return "Failed"
	case KindData:
		return "Data"
	case KindLog:
		return "Log"
	case KindComputeUnits:
		return "ComputeUnits"
	default:
		return "Unknown"
	}
}

// Line is one parsed log message.
type Line struct {
	Kind Kind

	// Depth is the invoke stack height the line belongs to, 1 for top-level.
	Depth int

	// ProgramID is the program that produced the line. For log and data lines
	// it is the program on top of the invoke stack.
	ProgramID string

	// Message is the text of a log line or the reason of a failure.
	Message string

	// Data is the decoded payload of a data line.
	Data []byte

	// ComputeUnits is set on compute-unit lines.
	ComputeUnits uint64

	Raw string
}

// Parser parses transaction log messages.
type Parser struct {
	invoke       *regexp.Regexp
	success      *regexp.Regexp
	failed       *regexp.Regexp
	data         *regexp.Regexp
	log          *regexp.Regexp
	computeUnits *regexp.Regexp
}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{
		invoke:       regexp.MustCompile(`^Program (\S+) invoke \[(\d+)\]`),
		success:      regexp.MustCompile(`^Program (\S+) success`),
		failed:       regexp.MustCompile(`^Program (\S+) failed(?:: (.+))?$`),
		data:         regexp.MustCompile(`^Program data: (.+)$`),
		log:          regexp.MustCompile(`^Program log: (.*)$`),
		computeUnits: regexp.MustCompile(`^Program (\S+) consumed (\d+) of \d+ compute units`),
	}
}

// ParseLine classifies a single message without stack context.
func (p *Parser) ParseLine(msg string) Line {
	line := Line{Kind: KindUnknown, Raw: msg}

	// Program output first: its text may end in words like "success".
	if m := p.data.FindStringSubmatch(msg); m != nil {
		line.Kind = KindData
		if decoded, err := base64.StdEncoding.DecodeString(m[1]); err == nil {
			line.Data = decoded
		}
		return line
	}
	if m := p.log.FindStringSubmatch(msg); m != nil {
		line.Kind = KindLog
		line.Message = m[1]
		return line
	}

	if m := p.invoke.FindStringSubmatch(msg); m != nil {
		line.Kind = KindInvoke
		line.ProgramID = m[1]
		line.Depth, _ = strconv.Atoi(m[2])
		return line
	}
	if m := p.success.FindStringSubmatch(msg); m != nil {
		line.Kind = KindSuccess
		line.ProgramID = m[1]
		return line
	}
	if m := p.failed.FindStringSubmatch(msg); m != nil {
		line.Kind = KindFailed
		line.ProgramID = m[1]
		line.Message = m[2]
		return line
	}
	if m := p.computeUnits.FindStringSubmatch(msg); m != nil {
		line.Kind = KindComputeUnits
		line.ProgramID = m[1]
		line.ComputeUnits, _ = strconv.ParseUint(m[2], 10, 64)
		return line
	}
	return line
}

// Parse parses all messages, attributing each line to the invoking program.
func (p *Parser) Parse(logs []string) []Line {
	lines := make([]Line, 0, len(logs))
	var stack []string

	for _, msg := range logs {
		line := p.ParseLine(msg)

		switch line.Kind {
		case KindInvoke:
			stack = append(stack, line.ProgramID)
			line.Depth = len(stack)
		case KindSuccess, KindFailed:
			line.Depth = len(stack)
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		default:
			line.Depth = len(stack)
			if line.ProgramID == "" && len(stack) > 0 {
				line.ProgramID = stack[len(stack)-1]
			}
		}
		lines = append(lines, line)
	}
	return lines
}

// ProgramMessages returns the "Program log:" messages emitted by programID itself,
// excluding those of programs it invoked.
func (p *Parser) ProgramMessages(programID string, logs []string) []string {
	var messages []string
	for _, line := range p.Parse(logs) {
		if line.Kind == KindLog && line.ProgramID == programID {
			messages = append(messages, line.Message)
		}
	}
	return messages
}

// ProgramData returns the decoded "Program data:" payloads emitted by programID.
func (p *Parser) ProgramData(programID string, logs []string) [][]byte {
	var data [][]byte
	for _, line := range p.Parse(logs) {
		if line.Kind == KindData && line.ProgramID == programID && len(line.Data) > 0 {
			data = append(data, line.Data)
		}
	}
	return data
}

// Summary aggregates the outcome of a program's invocations.
type Summary struct {
	Invocations  int
	ComputeUnits uint64
	Failed       bool
	FailReason   string
}

// Summarize reports invocations, compute units and failure of programID.
func (p *Parser) Summarize(programID string, logs []string) Summary {
	var s Summary
	for _, line := range p.Parse(logs) {
		if line.ProgramID != programID {
			continue
		}
		switch line.Kind {
		case KindInvoke:
			s.Invocations++
		case KindComputeUnits:
			s.ComputeUnits += line.ComputeUnits
		case KindFailed:
			s.Failed = true
			s.FailReason = line.Message
		}
	}
	return s
}
