package models

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"
)

func TestReadErrorWrapping(t *testing.T) {
	inner := fs.ErrNotExist
	err := fmt.Errorf("hashing failed: %w", &ReadError{Path: "/data/run1.dat.bz2", Err: inner})

	var readErr *ReadError
	if !errors.As(err, &readErr) {
		t.Fatal("errors.As failed to find ReadError")
	}
	if readErr.Path != "/data/run1.dat.bz2" {
		t.Errorf("Path = %q, want /data/run1.dat.bz2", readErr.Path)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("errors.Is should reach the wrapped cause")
	}
}

func TestMissingFieldErrorMessage(t *testing.T) {
	err := &MissingFieldError{Path: "run1.mtd.bz2", Field: "siteInst"}
	if !strings.Contains(err.Error(), "siteInst") {
		t.Errorf("message %q should name the field", err.Error())
	}
	if !strings.Contains(err.Error(), "run1.mtd.bz2") {
		t.Errorf("message %q should name the file", err.Error())
	}
}

func TestIncompleteGroupErrorListsMissing(t *testing.T) {
	err := &IncompleteGroupError{
		BaseName: "run2",
		Variant:  VariantSimulationV1,
		Missing:  []string{"input/run2.lst.bz2", "metadata/.run2.lst.bz2.jsonld"},
	}
	msg := err.Error()
	for _, want := range []string{"run2", "input/run2.lst.bz2", "metadata/.run2.lst.bz2.jsonld"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q should contain %q", msg, want)
		}
	}
}

func TestParseVariant(t *testing.T) {
	for _, v := range AllVariants() {
		parsed, ok := ParseVariant(string(v))
		if !ok || parsed != v {
			t.Errorf("ParseVariant(%q) = %q, %v", v, parsed, ok)
		}
	}
	if _, ok := ParseVariant("simulation-v3"); ok {
		t.Error("ParseVariant should reject unknown names")
	}
}
