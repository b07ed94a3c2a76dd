// Package prompts contains MCP prompt implementations for Wolfram|Alpha.
package prompts

// Config holds configuration needed by prompts.
type Config struct {
	DefaultLanguage string
}
