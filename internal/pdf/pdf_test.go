package pdf

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/hyperifyio/cigate/internal/javadoc"
)

func TestWrite_ProducesPDF(t *testing.T) {
	rec := javadoc.MethodRecord{Method: "testBar", IsTest: true}
	rec.Set(javadoc.Description, "Checks <code>bar</code> &amp; baz.")
	out := filepath.Join(t.TempDir(), "plan.pdf")
	if err := Write(out, "FooTest", javadoc.Simple(), []javadoc.MethodRecord{rec}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF-")) {
		t.Fatalf("output does not look like a PDF")
	}
}

func TestWrite_RequiresPath(t *testing.T) {
	if err := Write("  ", "FooTest", javadoc.Full(), nil); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
