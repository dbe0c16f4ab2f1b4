// Package renderer turns a set of users into display text.
// Every renderer checks that all records carry name, email, street and city
// before writing anything, so a malformed record aborts the whole render
// with a *models.MissingFieldError and no partial output.
package renderer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/patric-chuzhbe/userfinder/internal/models"
)

// Func renders users to w.
type Func func(w io.Writer, users []models.User) error

// TableHeader is the header row of the table format.
var TableHeader = []string{"Name", "Email", "Street", "City"}

const ruleWidth = 50

var renderers = map[models.Format]Func{
	models.FormatStandard: Standard,
	models.FormatJSON:     JSON,
	models.FormatTable:    Table,
	models.FormatCompact:  Compact,
}

// Render writes users to w in the given format.
func Render(w io.Writer, format models.Format, users []models.User) error {
	render, ok := renderers[format]
	if !ok {
		return fmt.Errorf("%w: %q", models.ErrUnknownFormat, format)
	}
	return render(w, users)
}

func flush(w io.Writer, buf *bytes.Buffer) error {
	_, err := w.Write(buf.Bytes())
	return err
}

// Standard writes one block per user followed by a rule line.
func Standard(w io.Writer, users []models.User) error {
	if err := models.ValidateAll(users); err != nil {
		return err
	}

	var buf bytes.Buffer
	if len(users) == 0 {
		buf.WriteString("\nNo users found matching the search criteria.\n")
		return flush(w, &buf)
	}

	rule := strings.Repeat("-", ruleWidth)
	for _, u := range users {
		row := u.Row()
		fmt.Fprintf(&buf, "\nName: %s\nEmail: %s\nAddress: %s, %s\n%s\n", row[0], row[1], row[2], row[3], rule)
	}

	return flush(w, &buf)
}

// JSON writes the records exactly as received, as a 2-space indented array.
func JSON(w io.Writer, users []models.User) error {
	if err := models.ValidateAll(users); err != nil {
		return err
	}
	if users == nil {
		users = []models.User{}
	}

	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("formatting JSON: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("\nUsers in JSON format:\n")
	buf.Write(data)
	buf.WriteString("\n")

	return flush(w, &buf)
}

// Table writes a grid table with the Name, Email, Street and City columns.
func Table(w io.Writer, users []models.User) error {
	if err := models.ValidateAll(users); err != nil {
		return err
	}

	var buf bytes.Buffer
	buf.WriteString("\nUsers in table format:\n")

	table := tablewriter.NewWriter(&buf)
	table.SetHeader(TableHeader)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetRowLine(true)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, u := range users {
		table.Append(u.Row())
	}
	table.Render()

	return flush(w, &buf)
}

// Compact writes one pipe-delimited line per user.
func Compact(w io.Writer, users []models.User) error {
	if err := models.ValidateAll(users); err != nil {
		return err
	}

	var buf bytes.Buffer
	buf.WriteString("\nUsers in compact format:\n")
	for _, u := range users {
		row := u.Row()
		fmt.Fprintf(&buf, "%s | %s | %s, %s\n", row[0], row[1], row[2], row[3])
	}

	return flush(w, &buf)
}
