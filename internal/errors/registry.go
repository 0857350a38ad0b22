package errors

import "sort"

// Template defines a registered error type.
type Template struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]Template{
	// Configuration (N001-N019)

	"N001": {
		Category:   CategoryConfig,
		Message:    "Configuration file could not be read",
		Suggestion: "Check the path passed to --config, or remove the flag to use defaults.",
	},
	"N002": {
		Category: CategoryConfig,
		Message:  "Configuration file is malformed",
		Detail:   "notes.json must be valid JSON and notes.yaml valid YAML.",
	},
	"N003": {
		Category: CategoryConfig,
		Message:  "Configuration is invalid",
		Detail:   "One or more settings are out of range or missing.",
	},

	// Notes API (N020-N039)

	"N020": {
		Category:   CategoryAPI,
		Message:    "Notes API rejected the credentials",
		Suggestion: "Log in again or pass a valid token with --token.",
	},
	"N021": {
		Category: CategoryAPI,
		Message:  "Notes API request failed",
		Detail:   "The backend returned an unexpected status.",
	},
	"N022": {
		Category:   CategoryAPI,
		Message:    "Notes API is unreachable",
		Suggestion: "Check api.base_url and that the backend is running.",
	},
	"N023": {
		Category: CategoryAPI,
		Message:  "Note was rejected",
		Detail:   "The note failed validation.",
	},
	"N024": {
		Category: CategoryAPI,
		Message:  "Note not found",
	},

	// Offline cache (N040-N049)

	"N040": {
		Category:   CategoryCache,
		Message:    "Offline cache could not be opened",
		Suggestion: "Another process may hold the cache directory; pass --cache-dir to use a different one.",
	},
	"N041": {
		Category: CategoryCache,
		Message:  "Offline cache has no copy of the requested notes",
	},

	// Rendering and export (N060-N079)

	"N060": {
		Category: CategoryRender,
		Message:  "Rendering failed",
	},
	"N070": {
		Category: CategoryExport,
		Message:  "Snapshot could not be written",
	},
	"N071": {
		Category:   CategoryExport,
		Message:    "Snapshot upload to S3 failed",
		Suggestion: "Check export.bucket, export.region and the AWS credentials in the environment.",
	},

	// Live preview (N080-N089)

	"N080": {
		Category:   CategoryLive,
		Message:    "Live preview server failed",
		Suggestion: "Another process may be using the port; pass --port to choose another.",
	},

	// CLI (N090-N099)

	"N090": {
		Category: CategoryCLI,
		Message:  "Invalid command usage",
	},
}

// Register adds or replaces an error template.
func Register(code string, template Template) {
	registry[code] = template
}

// Lookup returns the template registered for code.
func Lookup(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}

// Codes returns all registered codes in order.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// CodesByCategory returns the registered codes in category, in order.
func CodesByCategory(category Category) []string {
	var codes []string
	for _, code := range Codes() {
		if registry[code].Category == category {
			codes = append(codes, code)
		}
	}
	return codes
}
