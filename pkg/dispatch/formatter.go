package dispatch

import (
	"fmt"
	"strings"

	"github.com/ncruces/go-strftime"
)

// DefaultDateFormat is the strftime layout used when a formatter does
// not set datefmt.
const DefaultDateFormat = "%Y-%m-%d %H:%M:%S"

// Preset patterns shipped with DefaultConfig. Compact keeps lines
// short for consoles; precise adds the originating function and the
// severity name.
const (
	PatternCompact = "%(asctime)s %(message)s"
	PatternPrecise = "%(asctime)s %(funcName)s %(levelname)s %(message)s"
)

type patternToken int

const (
	tokenLiteral patternToken = iota
	tokenAsctime
	tokenLevelname
	tokenFuncName
	tokenMessage
	tokenName
)

// patternTokens is the closed set of %(...)s directives a pattern may
// use. Anything else fails compilation.
var patternTokens = map[string]patternToken{
	"asctime":   tokenAsctime,
	"levelname": tokenLevelname,
	"funcName":  tokenFuncName,
	"message":   tokenMessage,
	"name":      tokenName,
}

type segment struct {
	token   patternToken
	literal string
}

// Formatter renders records to single-line text from a compiled
// %(token)s pattern and a strftime date layout. Formatters are
// immutable once loaded.
type Formatter struct {
	name       string
	dateFormat string
	segments   []segment
}

func newFormatter(name string, cfg FormatterConfig) (*Formatter, error) {
	if cfg.Format == "" {
		return nil, fmt.Errorf("empty format pattern")
	}
	segs, err := compilePattern(cfg.Format)
	if err != nil {
		return nil, err
	}
	dateFormat := cfg.DateFormat
	if dateFormat == "" {
		dateFormat = DefaultDateFormat
	}
	return &Formatter{name: name, dateFormat: dateFormat, segments: segs}, nil
}

// Name returns the registry name the formatter was loaded under.
func (f *Formatter) Name() string { return f.name }

// Render produces the formatted line for a record. The result carries
// no trailing newline; sinks add the terminator.
func (f *Formatter) Render(r Record) string {
	var b strings.Builder
	for _, seg := range f.segments {
		switch seg.token {
		case tokenLiteral:
			b.WriteString(seg.literal)
		case tokenAsctime:
			b.WriteString(strftime.Format(f.dateFormat, r.Time))
		case tokenLevelname:
			b.WriteString(r.Severity.String())
		case tokenFuncName:
			b.WriteString(r.Function)
		case tokenMessage:
			b.WriteString(r.Message)
		case tokenName:
			b.WriteString(r.Logger)
		}
	}
	return b.String()
}

// compilePattern splits a pattern into literal and token segments.
// "%%" escapes a literal percent sign; any other '%' use must be a
// recognized %(name)s directive.
func compilePattern(pattern string) ([]segment, error) {
	var segs []segment
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			segs = append(segs, segment{token: tokenLiteral, literal: lit.String()})
			lit.Reset()
		}
	}
	i := 0
	for i < len(pattern) {
		c := pattern[i]
		if c != '%' {
			lit.WriteByte(c)
			i++
			continue
		}
		if i+1 >= len(pattern) {
			return nil, fmt.Errorf("truncated %% at end of pattern")
		}
		switch pattern[i+1] {
		case '%':
			lit.WriteByte('%')
			i += 2
		case '(':
			end := strings.IndexByte(pattern[i+2:], ')')
			if end < 0 {
				return nil, fmt.Errorf("unterminated directive at byte %d", i)
			}
			name := pattern[i+2 : i+2+end]
			verb := i + 2 + end + 1
			if verb >= len(pattern) || pattern[verb] != 's' {
				return nil, fmt.Errorf("directive %%(%s) must end in 's'", name)
			}
			tok, ok := patternTokens[name]
			if !ok {
				return nil, fmt.Errorf("unsupported directive %%(%s)s", name)
			}
			flush()
			segs = append(segs, segment{token: tok})
			i = verb + 1
		default:
			return nil, fmt.Errorf("stray %% at byte %d (use %%%% for a literal percent)", i)
		}
	}
	flush()
	return segs, nil
}
