// Package domain translates MCP tool calls into table operations.
//
// Handlers parse tool input into core types, call the table service and
// render structured output with localized labels. Failures surface as tool
// errors carrying the player-facing message for the configured locale.
package domain
