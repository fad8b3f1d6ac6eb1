// Package service holds the bot's use cases: rating intake, the media catalog,
// reminder settings and statistics. Handlers in internal/telegram call these
// directly; none of them know about the chat protocol.
package service
