package filtergraph

import (
	"fmt"
	"strings"
)

// filterSpec is one filter of a parsed description.
type filterSpec struct {
	kind      string
	args      string
	inLabels  []string
	outLabels []string
}

// parseDescription splits a description into chains of filters.
//
//	description := chain (";" chain)*
//	chain       := filter ("," filter)*
//	filter      := label* name ["=" args] label*
//	label       := "[" name "]"
func parseDescription(desc string) ([][]filterSpec, error) {
	p := &parser{s: desc}
	var chains [][]filterSpec
	for {
		chain, err := p.chain()
		if err != nil {
			return nil, err
		}
		chains = append(chains, chain)
		p.skipSpace()
		if p.eof() {
			return chains, nil
		}
		if !p.consume(';') {
			return nil, p.errorf("expected ';'")
		}
	}
}

type parser struct {
	s   string
	pos int
}

func (p *parser) chain() ([]filterSpec, error) {
	var chain []filterSpec
	for {
		spec, err := p.filter()
		if err != nil {
			return nil, err
		}
		chain = append(chain, spec)
		p.skipSpace()
		if !p.consume(',') {
			return chain, nil
		}
	}
}

func (p *parser) filter() (filterSpec, error) {
	var spec filterSpec
	var err error

	if spec.inLabels, err = p.labels(); err != nil {
		return spec, err
	}
	p.skipSpace()
	spec.kind = p.until("=[,; \t\n")
	if spec.kind == "" {
		return spec, p.errorf("expected filter name")
	}
	if p.consume('=') {
		spec.args = p.until("[,;")
	}
	if spec.outLabels, err = p.labels(); err != nil {
		return spec, err
	}
	return spec, nil
}

func (p *parser) labels() ([]string, error) {
	var labels []string
	for {
		p.skipSpace()
		if !p.consume('[') {
			return labels, nil
		}
		name := p.until("]")
		if !p.consume(']') {
			return nil, p.errorf("unterminated label")
		}
		if name == "" {
			return nil, p.errorf("empty label")
		}
		labels = append(labels, name)
	}
}

func (p *parser) until(stop string) string {
	start := p.pos
	for p.pos < len(p.s) && !strings.ContainsRune(stop, rune(p.s[p.pos])) {
		p.pos++
	}
	return strings.TrimSpace(p.s[start:p.pos])
}

func (p *parser) consume(c byte) bool {
	if p.pos < len(p.s) && p.s[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *parser) skipSpace() {
	for p.pos < len(p.s) && strings.ContainsRune(" \t\n\r", rune(p.s[p.pos])) {
		p.pos++
	}
}

func (p *parser) eof() bool {
	return p.pos >= len(p.s)
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("parse %q at %d: %s", p.s, p.pos, fmt.Sprintf(format, args...))
}
