package markup

import (
	"strings"
)

// tableExtension implements GFM pipe tables: a header row, a separator
// row carrying per-column alignment, then data rows. Without a valid
// separator row the candidate falls back to paragraph parsing.
func tableExtension() Extension {
	return Extension{
		Name: "table",
		BlockRules: []BlockRule{
			{Name: "table", Priority: PriorityTable, Match: matchTable},
		},
		RenderRules: []RenderRule{
			{Kind: KindTable, Render: func(_ Token, childHTML string) string {
				return "<table>" + childHTML + "</table>"
			}},
			{Kind: KindTableHead, Render: func(_ Token, childHTML string) string {
				return "<thead>" + childHTML + "</thead>"
			}},
			{Kind: KindTableBody, Render: func(_ Token, childHTML string) string {
				return "<tbody>" + childHTML + "</tbody>"
			}},
			{Kind: KindTableRow, Render: func(_ Token, childHTML string) string {
				return "<tr>" + childHTML + "</tr>"
			}},
			{Kind: KindTableCell, Render: renderTableCell},
		},
	}
}

func renderTableCell(t Token, childHTML string) string {
	tag := "td"
	if t.Attrs.Header {
		tag = "th"
	}
	if style := t.Attrs.Align.String(); style != "" {
		return "<" + tag + ` style="text-align:` + style + `">` + childHTML + "</" + tag + ">"
	}
	return "<" + tag + ">" + childHTML + "</" + tag + ">"
}

// matchTable requires the header line to be immediately followed by a
// valid separator line whose column count matches the header.
func matchTable(p *Parser, lines []string, pos int) (Token, int, bool) {
	header := lines[pos]
	if !strings.Contains(header, "|") || pos+1 >= len(lines) {
		return Token{}, 0, false
	}
	aligns, ok := parseTableSeparator(lines[pos+1])
	if !ok {
		return Token{}, 0, false
	}
	headCells := splitTableRow(header)
	if len(headCells) != len(aligns) {
		return Token{}, 0, false
	}

	leave := p.enterState(stateTable)
	defer leave()

	cols := len(aligns)
	table := Token{Kind: KindTable, Attrs: Attrs{Aligns: aligns}}

	table.Children = append(table.Children, Token{
		Kind:     KindTableHead,
		Children: []Token{tableRow(p, headCells, aligns, true)},
	})

	i := pos + 2
	var body []Token
	for ; i < len(lines); i++ {
		line := lines[i]
		if isBlank(line) || !strings.Contains(line, "|") {
			break
		}
		cells := splitTableRow(line)
		// pad or truncate to the header's column count
		for len(cells) < cols {
			cells = append(cells, "")
		}
		cells = cells[:cols]
		body = append(body, tableRow(p, cells, aligns, false))
	}
	if len(body) > 0 {
		table.Children = append(table.Children, Token{Kind: KindTableBody, Children: body})
	}
	table.Raw = strings.Join(lines[pos:i], "\n")
	return table, i - pos, true
}

func tableRow(p *Parser, cells []string, aligns []Alignment, header bool) Token {
	row := Token{Kind: KindTableRow}
	for c, cell := range cells {
		align := AlignNone
		if c < len(aligns) {
			align = aligns[c]
		}
		row.Children = append(row.Children, Token{
			Kind:     KindTableCell,
			Raw:      cell,
			Children: p.ParseInline(cell),
			Attrs:    Attrs{Header: header, Align: align},
		})
	}
	return row
}

// splitTableRow splits a pipe row into trimmed cells, honoring \|
// escapes and dropping the optional outer pipes.
func splitTableRow(line string) []string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "|")
	line = strings.TrimSuffix(line, "|")

	var cells []string
	var cur strings.Builder
	for i := 0; i < len(line); i++ {
		switch {
		case line[i] == '\\' && i+1 < len(line) && line[i+1] == '|':
			cur.WriteByte('|')
			i++
		case line[i] == '|':
			cells = append(cells, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(line[i])
		}
	}
	cells = append(cells, strings.TrimSpace(cur.String()))
	return cells
}

// parseTableSeparator validates a |---|:---:| line and extracts the
// per-column alignments.
func parseTableSeparator(line string) ([]Alignment, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.Trim(trimmed, "|:- ") != "" {
		return nil, false
	}
	if !strings.Contains(trimmed, "-") {
		return nil, false
	}
	cells := splitTableRow(line)
	aligns := make([]Alignment, 0, len(cells))
	for _, cell := range cells {
		if cell == "" {
			return nil, false
		}
		left := strings.HasPrefix(cell, ":")
		right := strings.HasSuffix(cell, ":")
		if strings.Trim(cell, ":-") != "" || !strings.Contains(cell, "-") {
			return nil, false
		}
		switch {
		case left && right:
			aligns = append(aligns, AlignCenter)
		case left:
			aligns = append(aligns, AlignLeft)
		case right:
			aligns = append(aligns, AlignRight)
		default:
			aligns = append(aligns, AlignNone)
		}
	}
	return aligns, true
}
