package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-isatty"

	"github.com/quartzjer/vcon-info/pkg/vcon/pipeline"
	"github.com/quartzjer/vcon-info/pkg/vcon/validate"
)

var (
	goodStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#D4A017", Dark: "#FFD866"}).Bold(true)
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#F25D94", Dark: "#F25D94"}).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#A49FA5", Dark: "#777777"})
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}).Bold(true)
)

func colorEnabled(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func statusLabel(s validate.Status, color bool) string {
	label := strings.ToUpper(string(s))
	if !color {
		return label
	}
	switch s {
	case validate.StatusGood:
		return goodStyle.Render(label)
	case validate.StatusWarning:
		return warnStyle.Render(label)
	case validate.StatusFail:
		return failStyle.Render(label)
	default:
		return dimStyle.Render(label)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeValidation prints the validation verdict, category breakdown, and
// every diagnostic with its field path.
func writeValidation(w io.Writer, result *pipeline.Result) {
	color := colorEnabled(w)
	validation := result.Validation

	fmt.Fprintf(w, "%s %s\n", titleStyleIf(color).Render("Overall:"), statusLabel(validation.OverallStatus, color))

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Category", "Status"})
	for _, cat := range []validate.Category{
		validate.CategorySchema, validate.CategoryRequired,
		validate.CategoryIntegrity, validate.CategorySecurity,
	} {
		t.AppendRow(table.Row{string(cat), statusLabel(validation.Categories[cat], color)})
	}
	t.Render()

	errors := result.Errors()
	warnings := result.Warnings()
	if len(errors) > 0 {
		fmt.Fprintf(w, "\n%s\n", headerStyle(color, failStyle, fmt.Sprintf("Errors (%d)", len(errors))))
		for _, e := range errors {
			fmt.Fprintf(w, "  %s %s\n", fieldLabel(e.Field, color), e.Message)
		}
	}
	if len(warnings) > 0 {
		fmt.Fprintf(w, "\n%s\n", headerStyle(color, warnStyle, fmt.Sprintf("Warnings (%d)", len(warnings))))
		for _, e := range warnings {
			fmt.Fprintf(w, "  %s %s\n", fieldLabel(e.Field, color), e.Message)
		}
	}
	if len(errors) == 0 && len(warnings) == 0 {
		fmt.Fprintln(w, "\nNo problems found.")
	}
}

func titleStyleIf(color bool) lipgloss.Style {
	if color {
		return titleStyle
	}
	return lipgloss.NewStyle()
}

func headerStyle(color bool, style lipgloss.Style, s string) string {
	if color {
		return style.Render(s)
	}
	return s
}

func fieldLabel(field string, color bool) string {
	if field == "" {
		field = "-"
	}
	label := "[" + field + "]"
	if color {
		return dimStyle.Render(label)
	}
	return label
}

// writeCrypto prints the envelope summary for signed or encrypted input.
func writeCrypto(w io.Writer, crypto *pipeline.Crypto) {
	if crypto == nil || (!crypto.IsSigned && !crypto.IsEncrypted) {
		return
	}
	color := colorEnabled(w)
	fmt.Fprintf(w, "\n%s\n", titleStyleIf(color).Render("Envelope"))
	fmt.Fprintf(w, "  format: %s\n", crypto.Format)
	if crypto.EncryptedFormat != "" {
		fmt.Fprintf(w, "  encrypted as: %s\n", crypto.EncryptedFormat)
	}
	if crypto.IsSigned {
		fmt.Fprintf(w, "  signatures: %d\n", crypto.SignatureCount)
		if crypto.Verified != nil {
			fmt.Fprintf(w, "  verified: %t\n", *crypto.Verified)
		}
	}
	if crypto.IsEncrypted {
		fmt.Fprintf(w, "  decryption: %s\n", crypto.DecryptionState)
	}
}

// writeSummary prints the document metadata and entity counts.
func writeSummary(w io.Writer, result *pipeline.Result) {
	if result.Entities == nil {
		return
	}
	color := colorEnabled(w)
	md := result.Entities.Metadata

	fmt.Fprintf(w, "\n%s\n", titleStyleIf(color).Render("Document"))
	fmt.Fprintf(w, "  uuid: %s\n", md.UUID)
	fmt.Fprintf(w, "  version: %s\n", md.Version)
	fmt.Fprintf(w, "  type: %s\n", md.Type)
	if md.Subject != "" {
		fmt.Fprintf(w, "  subject: %s\n", md.Subject)
	}
	if md.CreatedAt != "" {
		fmt.Fprintf(w, "  created: %s\n", md.CreatedAt)
	}
	if md.UpdatedAt != "" {
		fmt.Fprintf(w, "  updated: %s\n", md.UpdatedAt)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Parties", "Dialog", "Attachments", "Analysis", "Extensions"})
	t.AppendRow(table.Row{
		len(result.Entities.Parties),
		len(result.Entities.Dialog),
		len(result.Entities.Attachments),
		len(result.Entities.Analysis),
		len(result.Entities.Extensions),
	})
	t.Render()
}

// writeParties prints the enriched party list.
func writeParties(w io.Writer, result *pipeline.Result) {
	if result.Entities == nil || len(result.Entities.Parties) == 0 {
		return
	}
	color := colorEnabled(w)
	fmt.Fprintf(w, "\n%s\n", titleStyleIf(color).Render("Parties"))

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "Name", "Identifiers", "Validation"})
	for _, p := range result.Entities.Parties {
		var ids []string
		for _, id := range p.Identifiers {
			mark := ""
			if !id.Valid {
				mark = " (!)"
			}
			ids = append(ids, id.Type+":"+id.Display+mark)
		}
		validation := ""
		if p.Validation != nil {
			validation = p.Validation.Display
		}
		t.AppendRow(table.Row{p.Index, p.Name, strings.Join(ids, ", "), validation})
	}
	t.Render()
}
