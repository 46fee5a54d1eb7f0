package summarizer

import (
	"fmt"
	"strings"
	"time"
)

// MarkdownFormatter renders a Summary as a Markdown report.
type MarkdownFormatter struct {
	translate func(string) string
	version   string
}

// MarkdownOption configures a MarkdownFormatter.
type MarkdownOption func(*MarkdownFormatter)

// WithTranslator sets the function used to translate labels.
func WithTranslator(fn func(string) string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		if fn != nil {
			f.translate = fn
		}
	}
}

// WithVersion adds the program version to the footer.
func WithVersion(version string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.version = version
	}
}

// NewMarkdownFormatter creates a MarkdownFormatter.
func NewMarkdownFormatter(opts ...MarkdownOption) *MarkdownFormatter {
	f := &MarkdownFormatter{
		translate: func(s string) string { return s },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format implements Formatter.
func (f *MarkdownFormatter) Format(s *Summary) string {
	t := f.translate
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", t("Mix Summary"))
	if s.RunID != "" {
		fmt.Fprintf(&sb, "- **%s**: `%s`\n", t("Run ID"), s.RunID)
	}
	fmt.Fprintf(&sb, "- **%s**: %s\n\n", t("Generated"), s.GeneratedAt.Format(time.RFC3339))

	// Inputs
	fmt.Fprintf(&sb, "## %s\n\n", t("Inputs"))
	fmt.Fprintf(&sb, "| # | %s | %s | %s | %s |\n", t("File"), t("Size"), t("Frames Read"), t("Status"))
	sb.WriteString("|---|---|---|---:|---|\n")
	for i, in := range s.Streams {
		status := t("Open")
		if in.Exhausted {
			status = t("Ended")
		}
		fmt.Fprintf(&sb, "| %d | `%s` | %s | %d | %s |\n", i, in.Path, in.Size, in.FramesRead, status)
	}
	sb.WriteString("\n")

	// Output
	fmt.Fprintf(&sb, "## %s\n\n", t("Output"))
	fmt.Fprintf(&sb, "| %s | %s |\n|---|---|\n", t("Item"), t("Value"))
	fmt.Fprintf(&sb, "| %s | `%s` |\n", t("File"), s.Output.Path)
	fmt.Fprintf(&sb, "| %s | %s |\n", t("Size"), s.Output.Size)
	if s.Output.RequestedSize != "" && s.Output.RequestedSize != s.Output.Size {
		fmt.Fprintf(&sb, "| %s | %s (%s) |\n", t("Requested Size"), s.Output.RequestedSize, t("ignored"))
	}
	fmt.Fprintf(&sb, "| %s | %d |\n", t("Frames Written"), s.Output.FrameCount)
	fmt.Fprintf(&sb, "| %s | %s |\n\n", t("Bytes Written"), formatBytes(s.Output.Bytes))

	// Composition
	fmt.Fprintf(&sb, "## %s\n\n", t("Composition"))
	fmt.Fprintf(&sb, "| %s | %s |\n|---|---|\n", t("Item"), t("Value"))
	fmt.Fprintf(&sb, "| %s | %s |\n", t("Layout"), s.Composition.Layout)
	fmt.Fprintf(&sb, "| %s | %s |\n", t("Policy"), s.Composition.Policy)
	if len(s.Composition.Filters) > 0 {
		fmt.Fprintf(&sb, "| %s | %s |\n", t("Filters"), strings.Join(s.Composition.Filters, ", "))
	}
	sb.WriteString("\n")
	if s.Composition.Description != "" {
		fmt.Fprintf(&sb, "```\n%s\n```\n\n", s.Composition.Description)
	}

	// Termination
	fmt.Fprintf(&sb, "## %s\n\n", t("Termination"))
	fmt.Fprintf(&sb, "| %s | %s |\n|---|---|\n", t("Item"), t("Value"))
	fmt.Fprintf(&sb, "| %s | %s |\n", t("Reason"), s.Termination.Reason)
	fmt.Fprintf(&sb, "| %s | %d |\n", t("Rounds"), s.Termination.Rounds)
	fmt.Fprintf(&sb, "| %s | %d ms |\n", t("Duration"), s.Termination.Duration.Milliseconds())
	if s.Termination.Err != "" {
		fmt.Fprintf(&sb, "| %s | %s |\n", t("Error"), s.Termination.Err)
	}
	sb.WriteString("\n")

	sb.WriteString("---\n\n")
	if f.version != "" {
		fmt.Fprintf(&sb, "*%s vmix %s*\n", t("Generated by"), f.version)
	} else {
		fmt.Fprintf(&sb, "*%s vmix*\n", t("Generated by"))
	}
	return sb.String()
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit && exp < 2; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(n)/float64(div), "KMG"[exp])
}
