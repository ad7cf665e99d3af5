// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"os"
	"reflect"
	"strconv"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/xpctl/xpctl/internal/attrs"
	"github.com/xpctl/xpctl/internal/config"
	"github.com/xpctl/xpctl/internal/filters"
)

// InterfaceToString converts supported primitive or composite values to a
// string. A custom empty value may be provided.
func InterfaceToString(value interface{}, emptyValue ...string) string {
	if len(emptyValue) == 0 {
		emptyValue = []string{""}
	}

	if value == nil {
		return emptyValue[0]
	}

	// Zero numbers and false are real values in a config, so only empty
	// strings and empty collections count as empty.
	switch value := value.(type) {
	case string:
		if value == "" {
			return emptyValue[0]
		}
		return value
	case int:
		return strconv.Itoa(value)
	case float64:
		return strconv.FormatFloat(value, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	default:
		rv := reflect.ValueOf(value)
		switch rv.Kind() {
		case reflect.Slice, reflect.Map:
			if rv.Len() == 0 {
				return emptyValue[0]
			}
		}
		jsonBytes, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(jsonBytes)
	}
}

// SliceDiceSpit filters, transforms, sorts and renders the JSON array in raw
// according to the --output, --filter and --sort flags of cmd.
func SliceDiceSpit(raw []byte, al attrs.AttrList, cmd *cli.Command, w io.Writer) error {
	if w == nil {
		w = os.Stdout
	}

	output := cmd.String("output")
	if output == "raw" {
		_, err := w.Write(raw)
		return err
	}

	dataset, err := filters.FilterDataset(gjson.ParseBytes(raw), al, cmd.String("filter"))
	if err != nil {
		return err
	}

	for _, row := range dataset {
		for _, attr := range al {
			if attr.TransformSpec != "" {
				row[attr.OutputKey] = attr.Transform(row[attr.OutputKey])
			}
		}
	}

	SortDataset(dataset, cmd.String("sort"))

	switch output {
	case "json", "yaml":
		return Emit(dataset, output, w)
	default:
		TableWriter(dataset, al, cmd, w)
	}
	return nil
}

// Emit writes value as indented JSON or as YAML.
func Emit(value any, format string, w io.Writer) error {
	if w == nil {
		w = os.Stdout
	}

	var (
		out []byte
		err error
	)
	switch format {
	case "json":
		out, err = json.MarshalIndent(value, "", "  ")
		out = append(out, '\n')
	case "yaml":
		out, err = yaml.Marshal(value)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
	if err != nil {
		log.Errorf("emit %s marshal: %v", format, err)
		return err
	}

	_, err = w.Write(out)
	return err
}

// TableWriter renders the result set in a tabular form honoring color,
// titles and padding options. Output is written to w. If w is nil, os.Stdout
// is used.
func TableWriter(
	resultSet []map[string]interface{},
	al attrs.AttrList,
	cmd *cli.Command,
	w io.Writer) {

	if w == nil {
		w = os.Stdout
	}

	if len(resultSet) == 0 {
		return
	}

	var rows [][]string
	for _, result := range resultSet {
		row := make([]string, 0, len(result))
		for _, attr := range al.Included() {
			row = append(row, InterfaceToString(result[attr.OutputKey], "-"))
		}
		rows = append(rows, row)
	}

	var headers []string
	if cmd.Bool("titles") {
		for _, attr := range al.Included() {
			headers = append(headers, attr.OutputKey)
		}
	}

	style := newTableStyle(cmd.Bool("color"), int(cmd.Int("padding")))

	if cmd.Metadata["header"] != nil {
		fmt.Fprintln(w, style.header.Render(cmd.Metadata["header"].(string)))
	}

	renderTable(w, headers, rows, style)

	if cmd.Metadata["footer"] != nil {
		fmt.Fprintln(w, style.header.Render(cmd.Metadata["footer"].(string)))
	}
}

// tableStyle holds the lipgloss styles shared by every table we print.
type tableStyle struct {
	header lipgloss.Style
	even   lipgloss.Style
	odd    lipgloss.Style
	pad    int
}

func newTableStyle(colored bool, pad int) tableStyle {
	cell := lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
	s := tableStyle{
		header: lipgloss.NewStyle().Align(lipgloss.Left).Bold(true),
		even:   cell,
		odd:    cell,
		pad:    pad,
	}

	if colored {
		headerColor, evenColor, oddColor := getColors("colors")
		s.header = s.header.Foreground(headerColor)
		s.even = s.even.Foreground(evenColor)
		s.odd = s.odd.Foreground(oddColor)
	}
	return s
}

// renderTable prints a borderless table. No header row is printed when
// headers is empty.
func renderTable(w io.Writer, headers []string, rows [][]string, s tableStyle) {
	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				style = s.header
			case row%2 == 0:
				style = s.even
			default:
				style = s.odd
			}

			if col > 0 {
				style = style.PaddingLeft(s.pad)
			}

			return style
		}).
		Rows(rows...)

	if len(headers) > 0 {
		// https://github.com/charmbracelet/lipgloss/issues/261
		t = t.Headers(headers...).BorderHeader(false)
	}
	fmt.Fprintln(w, t)
}

// getColors returns configured color values for table rendering. Each color is
// selected based on terminal background color and brightness so that we can
// make sure output is reasonably visible for all(?) terminal themes.
func getColors(key string) (header, even, odd color.Color) {
	isDark := lipgloss.HasDarkBackground(os.Stdin, os.Stdout)

	// Use the explicit color if found in the config and leave it up to the user
	// to choose appropriate colors for their theme. If not found, pick a
	// reasonable default based on terminal background.
	resolveColor := func(key string, light string, dark string) color.Color {
		colorCfg, err := config.GetString(key)
		if err == nil {
			return lipgloss.Color(colorCfg)
		}

		if isDark {
			return lipgloss.Color(dark)
		}
		return lipgloss.Color(light)
	}

	header = resolveColor(key+".title", "#b08800", "#f6be00")
	even = resolveColor(key+".even", "#333333", "#ffffff")
	odd = resolveColor(key+".odd", "#0088a0", "#00c8f0")

	return
}
