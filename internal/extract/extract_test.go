package extract

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildZip(t *testing.T, parts map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range parts {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractTextPlain(t *testing.T) {
	got, err := ExtractText("notes.txt", "text/plain", []byte("Operating  systems:\n\nscheduling\tand paging"))
	require.NoError(t, err)
	assert.Equal(t, "Operating systems: scheduling and paging", got)
}

func TestExtractTextDocx(t *testing.T) {
	data := buildZip(t, map[string]string{
		"[Content_Types].xml": `<Types/>`,
		"word/document.xml": `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
			`<w:body><w:p><w:r><w:t>Deadlock</w:t></w:r><w:r><w:t>avoidance</w:t></w:r></w:p></w:body></w:document>`,
	})
	got, err := ExtractText("unit3.docx", "", data)
	require.NoError(t, err)
	assert.Equal(t, "Deadlock avoidance", got)
}

func TestExtractTextPptx(t *testing.T) {
	data := buildZip(t, map[string]string{
		"ppt/presentation.xml": `<p:presentation/>`,
		"ppt/slides/slide1.xml": `<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">` +
			`<a:t>Paging</a:t></p:sld>`,
		"ppt/slides/slide2.xml": `<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">` +
			`<a:t>Segmentation</a:t></p:sld>`,
	})
	got, err := ExtractText("lecture.pptx", "", data)
	require.NoError(t, err)
	assert.Contains(t, got, "Paging")
	assert.Contains(t, got, "Segmentation")
}

func TestExtractTextUnsupportedZip(t *testing.T) {
	data := buildZip(t, map[string]string{"random/file.bin": "xx"})
	_, err := ExtractText("archive.zip", "", data)
	assert.Error(t, err)
}

func TestExtractTextBinary(t *testing.T) {
	_, err := ExtractText("image.png", "image/png", []byte{0x89, 0x50, 0x4E, 0x47, 0x00, 0x00, 0x01, 0x02})
	assert.Error(t, err)
}

func TestExtractTextEmpty(t *testing.T) {
	_, err := ExtractText("empty.txt", "text/plain", nil)
	assert.Error(t, err)
}

func TestExtractTextSniffsDespiteWrongExtension(t *testing.T) {
	data := buildZip(t, map[string]string{
		"word/document.xml": `<w:document xmlns:w="x"><w:t>Hashing</w:t></w:document>`,
	})
	got, err := ExtractText("renamed.pdf", "application/pdf", data)
	require.NoError(t, err)
	assert.Equal(t, "Hashing", got)
}
