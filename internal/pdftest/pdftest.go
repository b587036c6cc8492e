// Package pdftest builds tiny PDFs for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"strings"
)

// New returns a structurally valid PDF with n blank letter-size pages.
// n must be at least 1.
func New(n int) []byte {
	if n < 1 {
		panic("pdftest: page count must be positive")
	}

	var buf bytes.Buffer
	var offsets []int
	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")
	obj("<< /Type /Catalog /Pages 2 0 R >>")

	kids := make([]string, n)
	for i := range kids {
		kids[i] = fmt.Sprintf("%d 0 R", i+3)
	}
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), n))
	for i := 0; i < n; i++ {
		obj("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> >>")
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}

// Corrupt returns bytes that no PDF reader accepts.
func Corrupt() []byte {
	return []byte("this is not a pdf, just some bytes with a .pdf name\n")
}

// Truncated returns the first half of a valid two-page PDF, cut inside the
// object bodies with no xref table or trailer.
func Truncated() []byte {
	full := New(2)
	return full[:len(full)/2]
}
