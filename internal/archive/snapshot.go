package archive

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/iudanet/nvdmirror/internal/models"
)

// arrayWriter streams documents as an indented JSON array
type arrayWriter struct {
	w     *bufio.Writer
	count int
}

func newArrayWriter(w io.Writer) *arrayWriter {
	return &arrayWriter{w: bufio.NewWriter(w)}
}

func (a *arrayWriter) append(items []models.Document) error {
	for _, item := range items {
		data, err := json.MarshalIndent(item, "  ", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode snapshot item: %w", err)
		}

		sep := ",\n  "
		if a.count == 0 {
			sep = "[\n  "
		}
		if _, err := a.w.WriteString(sep); err != nil {
			return err
		}
		if _, err := a.w.Write(data); err != nil {
			return err
		}
		a.count++
	}
	return nil
}

// close terminates the array and flushes buffered output
func (a *arrayWriter) close() error {
	tail := "\n]\n"
	if a.count == 0 {
		tail = "[]\n"
	}
	if _, err := a.w.WriteString(tail); err != nil {
		return err
	}
	return a.w.Flush()
}

// indentPage pretty-prints a raw page. Bodies that are not valid JSON are
// archived unchanged.
func indentPage(raw []byte) []byte {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return raw
	}
	buf.WriteByte('\n')
	return buf.Bytes()
}
