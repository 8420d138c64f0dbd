// Package testpdf builds small, valid PDF files for tests. Each line of
// text is drawn with a standard Type1 font, so no font program is
// embedded and glyph widths are zero.
package testpdf

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// Line is one run of text placed on a page.
type Line struct {
	Font string // base font name, e.g. "Helvetica-Bold"
	Size float64
	X, Y float64
	Text string
}

// Doc describes the document to build.
type Doc struct {
	Title string // Info /Title, omitted when empty
	Pages [][]Line
}

// Build renders d as PDF bytes with a correct cross-reference table.
func Build(d Doc) []byte {
	fonts := fontResources(d.Pages)

	// Object layout: 1 catalog, 2 page tree, 3 info, then one font
	// object per base font, then a page and content object per page.
	var objs []string
	objs = append(objs, "<< /Type /Catalog /Pages 2 0 R >>")
	objs = append(objs, "") // page tree, filled below
	objs = append(objs, fmt.Sprintf("<< /Title (%s) /Producer (testpdf) >>", escape(d.Title)))

	var fontRefs strings.Builder
	for i, name := range fonts {
		objs = append(objs, fmt.Sprintf("<< /Type /Font /Subtype /Type1 /BaseFont /%s /Encoding /WinAnsiEncoding >>", name))
		fmt.Fprintf(&fontRefs, " /F%d %d 0 R", i+1, len(objs))
	}
	resources := fmt.Sprintf("<< /Font <<%s >> >>", fontRefs.String())

	var kids []string
	for _, lines := range d.Pages {
		pageNum := len(objs) + 1
		contentNum := pageNum + 1
		objs = append(objs, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources %s /Contents %d 0 R >>",
			resources, contentNum))

		stream := contentStream(lines, fonts)
		objs = append(objs, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
		kids = append(kids, fmt.Sprintf("%d 0 R", pageNum))
	}
	objs[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(kids))

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, body := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objs)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	info := ""
	if d.Title != "" {
		info = " /Info 3 0 R"
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R%s >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, info, xref)

	return buf.Bytes()
}

func fontResources(pages [][]Line) []string {
	seen := make(map[string]bool)
	var names []string
	for _, lines := range pages {
		for _, l := range lines {
			if !seen[l.Font] {
				seen[l.Font] = true
				names = append(names, l.Font)
			}
		}
	}
	sort.Strings(names)
	if len(names) == 0 {
		names = []string{"Helvetica"}
	}
	return names
}

func contentStream(lines []Line, fonts []string) string {
	var b strings.Builder
	for _, l := range lines {
		idx := sort.SearchStrings(fonts, l.Font) + 1
		fmt.Fprintf(&b, "BT /F%d %g Tf %g %g Td (%s) Tj ET\n", idx, l.Size, l.X, l.Y, escape(l.Text))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}
