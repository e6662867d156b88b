package extract

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dverenov/bankfeed/internal/domain"
)

// buildNoTextPDF assembles a minimal single-page PDF with no content
// stream, i.e. the shape of a scanned statement. The xref offsets are
// computed while writing so the document stays structurally valid.
func buildNoTextPDF() []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	objects := []string{
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n",
		"2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n",
		"3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>\nendobj\n",
	}
	offsets := make([]int, 0, len(objects))
	for _, obj := range objects {
		offsets = append(offsets, buf.Len())
		buf.WriteString(obj)
	}

	xrefPos := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(objects)+1, xrefPos)
	return buf.Bytes()
}

func TestPDFExtract_NoTextLayerIsSoft(t *testing.T) {
	res, err := (&PDFExtractor{}).Extract(bytes.NewReader(buildNoTextPDF()))
	require.NoError(t, err, "an image-only PDF must not be an error")
	assert.Empty(t, res.Rows)
	require.NotEmpty(t, res.Warnings)
	assert.Equal(t, NoExtractableText, res.Warnings[0])
}

func TestPDFExtract_GarbageIsCorruptFile(t *testing.T) {
	_, err := (&PDFExtractor{}).Extract(strings.NewReader("this is not a pdf"))
	assert.True(t, errors.Is(err, domain.ErrCorruptFile))
}
