// Package service hosts the table MCP server: it registers the roll,
// character, clock and journal tools plus readable table resources, and
// serves them over stdio or streamable HTTP.
package service
