package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/akellamp2020-create/lamp-card-render/pkg/card"
)

// inspectCommand creates the inspect command that previews a payload in the terminal.
func (c *CLI) inspectCommand() *cobra.Command {
	var chunkWidth int

	cmd := &cobra.Command{
		Use:   "inspect <payload.json>",
		Short: "Show how a payload is normalized and laid out",
		Long: `Print the input shape detected for each section of a payload and
preview the resulting cards, coloured the way the image colours them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), cmd.OutOrStdout(), args[0], chunkWidth)
		},
	}

	cmd.Flags().IntVar(&chunkWidth, "chunk-width", 0, "values per table segment (default from config)")
	return cmd
}

func (c *CLI) runInspect(ctx context.Context, w io.Writer, path string, chunkWidth int) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if chunkWidth != 0 {
		cfg.Engine.ChunkWidth = chunkWidth
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	runner, err := c.newRunner(cfg)
	if err != nil {
		return err
	}
	runner.Logger = loggerFromContext(ctx)

	shapes, payload := runner.Normalize(ctx, data)
	doc := runner.Layout(ctx, payload)

	fmt.Fprintln(w, StyleTitle.Render("Input shapes"))
	printKeyValue(w, "identity", string(shapes.Identity))
	printKeyValue(w, card.SlotRedistribution.String(), string(shapes.Redistribution))
	printKeyValue(w, card.SlotSettlement.String(), string(shapes.Settlement))
	fmt.Fprintln(w)

	if doc.Empty() {
		printInfo(w, "No cards: the payload carries nothing to draw")
		return nil
	}
	writeDocument(w, doc)
	return nil
}

// writeDocument prints every card of doc.
func writeDocument(w io.Writer, doc card.Document) {
	for _, c := range doc.Cards {
		fmt.Fprintln(w, StyleTitle.Render(c.Title))
		for _, p := range c.Pairs {
			printKeyValue(w, p.Label, classStyle(p.Class).Render(p.Value))
		}
		for _, t := range c.Tables {
			fmt.Fprintln(w, segmentTable(t, doc.Columns))
		}
		fmt.Fprintln(w)
	}
}

// segmentTable renders one chunked row as a terminal table, one line per
// segment plus its annotation line when the row is annotated.
func segmentTable(t card.Table, columns int) string {
	headers := make([]string, columns)
	headers[0] = t.Header

	var rows [][]string
	var styles [][]lipgloss.Style
	for _, seg := range t.Segments {
		values := make([]string, columns)
		valueStyles := make([]lipgloss.Style, columns)
		for i := range valueStyles {
			valueStyles[i] = styleTableCell
		}
		for i, cell := range seg.Cells {
			values[i] = cell.Text
			valueStyles[i] = styleTableCell.Inherit(classStyle(cell.Class))
		}
		rows = append(rows, values)
		styles = append(styles, valueStyles)

		if t.Annotated {
			notes := make([]string, columns)
			noteStyles := make([]lipgloss.Style, columns)
			copy(notes, seg.Annotations)
			for i := range noteStyles {
				noteStyles[i] = styleTableCell.Inherit(StyleDim)
			}
			rows = append(rows, notes)
			styles = append(styles, noteStyles)
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleTableHeader
			}
			if row >= 0 && row < len(styles) && col < len(styles[row]) {
				return styles[row][col]
			}
			return styleTableCell
		}).
		String()
}
