// Package ui implements the interactive terminal prompts using bubbletea's
// Elm architecture.
//
// Interactive builds show a [ConfirmModel] prompt per discovered artist;
// the answer maps directly onto the collector's decision type (yes, no,
// all, cancel). Keyboard hints are rendered with charmbracelet/bubbles/help.
package ui
