// Package format renders prices and dates for display.
package format
