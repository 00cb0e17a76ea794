package oracle

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeAnnotations(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mols.jsonl")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const twoMols = `{"id":"m1","smiles":"CN(C)C","size_proxy":12,"centers":[]}
{"id":"m2","smiles":"CCN","size_proxy":10,"centers":[]}
`

func TestNextStreamsMolecules(t *testing.T) {
	src, err := Open(writeAnnotations(t, twoMols))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer src.Close()

	first, err := src.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if first.ID != "m1" || first.SMILES != "CN(C)C" || first.SizeProxy != 12 {
		t.Errorf("first = %+v", first)
	}

	second, err := src.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if second.ID != "m2" {
		t.Errorf("second.ID = %q, want m2", second.ID)
	}

	if _, err := src.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("Next() past end error = %v, want io.EOF", err)
	}
}

func TestNextSkipsBlankLines(t *testing.T) {
	data := "\n" + `{"id":"m1","smiles":"CCN","size_proxy":3,"centers":[]}` + "\n\n"
	src, err := Open(writeAnnotations(t, data))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer src.Close()

	mol, err := src.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if mol.ID != "m1" {
		t.Errorf("mol.ID = %q, want m1", mol.ID)
	}
	if _, err := src.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("Next() past end error = %v, want io.EOF", err)
	}
}

func TestNextReportsLineNumber(t *testing.T) {
	data := `{"id":"m1","smiles":"CCN","size_proxy":3,"centers":[]}` + "\nnot json\n"
	src, err := Open(writeAnnotations(t, data))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer src.Close()

	if _, err := src.Next(); err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	_, err = src.Next()
	if err == nil {
		t.Fatal("Next() error = nil, want parse error")
	}
	if !strings.Contains(err.Error(), ":2:") {
		t.Errorf("error %q does not carry line number 2", err)
	}
}

func TestNextRejectsMissingID(t *testing.T) {
	src, err := Open(writeAnnotations(t, `{"smiles":"CCN","size_proxy":3}`+"\n"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer src.Close()

	_, err = src.Next()
	if err == nil || !strings.Contains(err.Error(), "no id") {
		t.Errorf("Next() error = %v, want missing id error", err)
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "absent.jsonl")); err == nil {
		t.Error("Open() error = nil, want not-exist error")
	}
}
