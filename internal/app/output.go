package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// OutputFormat represents a supported output format.
type OutputFormat string

const (
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatText OutputFormat = "text"
)

// formatForPath returns the output format to use when writing to a file path.
// Uses path extension when format is empty or "text": .yaml/.yml → yaml, else json.
func formatForPath(path, format string) OutputFormat {
	if format != "" && format != "text" {
		if f, err := ParseOutputFormat(format); err == nil && f != OutputFormatText {
			return f
		}
	}
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") {
		return OutputFormatYAML
	}
	return OutputFormatJSON
}

// FormatOutput serializes v to the specified output format.
// JSON output is pretty-printed (indented).
func FormatOutput(v any, format OutputFormat) ([]byte, error) {
	switch format {
	case OutputFormatJSON:
		return json.MarshalIndent(v, "", "  ")
	case OutputFormatYAML:
		// Round-trip via JSON so json tags and json.RawMessage args are honored.
		tmp, err := NormalizeJSON(v)
		if err != nil {
			return nil, err
		}
		return yaml.Marshal(tmp)
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// ParseOutputFormat parses a string into an OutputFormat.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch s {
	case "", "text":
		return OutputFormatText, nil
	case "json":
		return OutputFormatJSON, nil
	case "yaml", "yml":
		return OutputFormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q (valid: text, json, yaml)", s)
	}
}

// Renderable is implemented by types that can render human-friendly output.
type Renderable interface {
	Render() string
}

// OutputResult handles common output formatting logic for CLI commands.
// format: from --format (json|yaml|text|quiet). outputPath: from -o/--output; when set, write to file.
// If defaultFormat is provided and format is empty, uses that format for stdout.
func OutputResult(v any, format string, outputPath string, defaultFormat ...OutputFormat) error {
	return outputResultCore(v, format, outputPath, nil, defaultFormat...)
}

// OutputResultText handles output formatting with an explicit text rendering function.
func OutputResultText(result any, format string, outputPath string, textFn func() string) error {
	return outputResultCore(result, format, outputPath, textFn)
}

func outputResultCore(v any, format string, outputPath string, textFn func() string, defaultFormat ...OutputFormat) error {
	if format == "quiet" {
		return ExitResult{}
	}

	if outputPath != "" {
		outFormat := formatForPath(outputPath, format)
		b, err := FormatOutput(v, outFormat)
		if err != nil {
			return err
		}
		if err := AtomicWriteFile(outputPath, b, FilePerm); err != nil {
			return Failure(err.Error())
		}
		return OKText("Wrote " + outputPath)
	}

	if format != "" {
		outFormat, err := ParseOutputFormat(format)
		if err != nil {
			return UsageExit(err.Error())
		}
		if outFormat == OutputFormatText {
			return OKText(renderText(v, textFn))
		}
		b, err := FormatOutput(v, outFormat)
		if err != nil {
			return err
		}
		return OKText(string(b))
	}

	if len(defaultFormat) > 0 && defaultFormat[0] != OutputFormatText {
		b, err := FormatOutput(v, defaultFormat[0])
		if err != nil {
			return err
		}
		return OKText(string(b))
	}

	return OKText(renderText(v, textFn))
}

// renderText produces human-readable text from a value. Priority:
// textFn (if provided) > Renderable interface > JSON fallback.
func renderText(v any, textFn func() string) string {
	if textFn != nil {
		return strings.TrimRight(textFn(), "\n")
	}
	if r, ok := v.(Renderable); ok {
		return r.Render()
	}
	b, err := FormatOutput(v, OutputFormatJSON)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
