package calc

import (
	"fmt"
	"strings"

	"github.com/ixlander/ai-mcp-agent/src/json"
)

// Format renders text in one of a fixed set of styles. Like Evaluate, it
// always returns text.
func Format(text, formatType string) string {
	switch formatType {
	case "json":
		var parsed any
		if err := json.Unmarshal([]byte(text), &parsed); err != nil {
			return fmt.Sprintf("Error formatting: %v", err)
		}
		pretty, err := json.MarshalIndent(parsed, "", "  ")
		if err != nil {
			return fmt.Sprintf("Error formatting: %v", err)
		}
		return string(pretty)
	case "uppercase":
		return strings.ToUpper(text)
	case "lowercase":
		return strings.ToLower(text)
	default:
		return fmt.Sprintf("Unknown format type: %s", formatType)
	}
}
