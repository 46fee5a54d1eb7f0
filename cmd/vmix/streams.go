package main

import (
	"errors"

	"github.com/alecthomas/kong"
	"github.com/ideamans/go-l10n"

	"github.com/user/vmix/pkg/config"
)

const (
	flagSize   = "size"
	flagInput  = "input"
	flagOutput = "output"
)

// flagOrder returns the names of the stream flags in the order they
// appeared on the command line.
func flagOrder(kctx *kong.Context) []string {
	var order []string
	for _, p := range kctx.Path {
		if p.Flag == nil {
			continue
		}
		switch p.Flag.Name {
		case flagSize, flagInput, flagOutput:
			order = append(order, p.Flag.Name)
		}
	}
	return order
}

// pairStreams attaches each -s value to the -i or -o that follows it.
// sizes, inputs and outputs hold the flag values in command-line order.
func pairStreams(order, sizes, inputs, outputs []string) ([]config.StreamConfig, *config.StreamConfig, error) {
	var (
		streams []config.StreamConfig
		output  *config.StreamConfig
		pending string
		si      int
		ii      int
		oi      int
	)

	for _, name := range order {
		switch name {
		case flagSize:
			if si >= len(sizes) {
				return nil, nil, errors.New(l10n.T("Size flags out of order"))
			}
			pending = sizes[si]
			si++
		case flagInput:
			if ii >= len(inputs) {
				return nil, nil, errors.New(l10n.T("Input flags out of order"))
			}
			streams = append(streams, config.StreamConfig{Path: inputs[ii], Size: pending})
			pending = ""
			ii++
		case flagOutput:
			if oi >= len(outputs) {
				return nil, nil, errors.New(l10n.T("Output flags out of order"))
			}
			if output != nil {
				return nil, nil, errors.New(l10n.T("Only one output is allowed"))
			}
			output = &config.StreamConfig{Path: outputs[oi], Size: pending}
			pending = ""
			oi++
		}
	}

	if pending != "" {
		return nil, nil, errors.New(l10n.F("Size %s is not followed by an input or output", pending))
	}
	return streams, output, nil
}
