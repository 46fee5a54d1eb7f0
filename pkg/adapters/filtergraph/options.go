package filtergraph

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/user/vmix/pkg/yuv"
)

// options holds "key=value:key=value" filter arguments.
type options map[string]string

func parseOptions(args string) (options, error) {
	opts := options{}
	if strings.TrimSpace(args) == "" {
		return opts, nil
	}
	for _, kv := range strings.Split(args, ":") {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("option %q is not key=value", kv)
		}
		opts[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return opts, nil
}

// take removes and returns an option.
func (o options) take(key, def string) string {
	v, ok := o[key]
	if !ok {
		return def
	}
	delete(o, key)
	return v
}

func (o options) takeInt(key string, def int) (int, error) {
	v := o.take(key, "")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("option %s: %w", key, err)
	}
	return n, nil
}

func (o options) takeBool(key string) (bool, error) {
	switch v := o.take(key, "0"); v {
	case "0", "false":
		return false, nil
	case "1", "true":
		return true, nil
	default:
		return false, fmt.Errorf("option %s: %q is not a boolean", key, v)
	}
}

// takeRational parses "num/den" into the number of ticks per second.
func (o options) takeRational(key string) (num, den int, err error) {
	v := o.take(key, "")
	if v == "" {
		return 0, 0, nil
	}
	ns, ds, ok := strings.Cut(v, "/")
	if !ok {
		ds = "1"
	}
	if num, err = strconv.Atoi(ns); err != nil {
		return 0, 0, fmt.Errorf("option %s: %w", key, err)
	}
	if den, err = strconv.Atoi(ds); err != nil {
		return 0, 0, fmt.Errorf("option %s: %w", key, err)
	}
	if num <= 0 || den <= 0 {
		return 0, 0, fmt.Errorf("option %s: %q must be positive", key, v)
	}
	return num, den, nil
}

// unused reports options no filter consumed.
func (o options) unused() error {
	for k := range o {
		return fmt.Errorf("unknown option %q", k)
	}
	return nil
}

// checkPixelFormat accepts "yuv420p" or its numeric id 0.
func checkPixelFormat(v string) error {
	if v == yuv.PixelFormat || v == "0" {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, v)
}

// splitList splits a "|" separated option value.
func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, "|") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
