// Package ui renders shell command lifecycle events as concise console messages.
package ui
