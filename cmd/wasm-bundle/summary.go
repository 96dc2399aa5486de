package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/wasm-bundler/bundler"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

func renderSummary(res *bundler.Result, styled bool) string {
	style := func(s lipgloss.Style, text string) string {
		if !styled {
			return text
		}
		return s.Render(text)
	}

	rows := [][2]string{
		{"payload", fmt.Sprintf("%d bytes", res.PayloadSize)},
		{"blake3", res.PayloadDigest},
		{"encoding", fmt.Sprintf("base64, %s, %d chars", res.Compression, res.EncodedLength)},
		{"shards", fmt.Sprintf("%d in %s", len(res.ShardPaths), filepath.Dir(res.IndexPath))},
		{"aggregator", res.IndexPath},
		{"binding", res.BindingPath},
		{"import", res.ImportPath},
	}

	var b strings.Builder
	b.WriteString(style(titleStyle, "wasm-bundle"))
	b.WriteString("\n\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "  %s %s\n", style(labelStyle, fmt.Sprintf("%-10s", r[0])), style(valueStyle, r[1]))
	}
	b.WriteString("\n")
	b.WriteString(style(helpStyle, fmt.Sprintf("done in %s", res.Duration.Round(time.Millisecond))))
	b.WriteString("\n")
	return b.String()
}
