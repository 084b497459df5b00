package diag

import (
	"testing"

	"letc/internal/source"
)

func TestFormatShort(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")
	file := fs.Add("/workspace/testdata/sample.let", []byte("(+ 1\n(read 2)\n"), 0)

	diags := []*Diagnostic{
		{
			Severity: SevWarning,
			Code:     SemaErrorNode,
			Message:  "another",
			Primary:  source.Span{File: file, Start: 5, End: 6},
		},
		{
			Severity: SevError,
			Code:     SynBadArity,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: file, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: file, Start: 6, End: 10}, Msg: "operator here"},
				{Span: source.Span{File: 42}, Msg: "dangling file id"},
			},
		},
		{
			Severity: SevError,
			Code:     IOLoadFileError,
			Message:  "failed to load file",
		},
	}

	want := "error IO4001 failed to load file\n" +
		"error SYN2301 testdata/sample.let:1:1 first line second\n" +
		"warning SEM3001 testdata/sample.let:2:1 another\n" +
		"note SYN2301 testdata/sample.let:2:2 operator here"
	if got := FormatShort(diags, fs, true); got != want {
		t.Fatalf("unexpected output:\nwant:\n%s\n\ngot:\n%s", want, got)
	}
}

func TestBagLimitSortDedup(t *testing.T) {
	bag := NewBag(3)
	sp := source.Span{Start: 4, End: 5}
	bag.Add(NewError(SynUnexpectedToken, sp, "late"))
	bag.Add(NewError(SynUnexpectedToken, sp, "late again"))
	bag.Add(New(SevWarning, SemaErrorNode, source.Span{}, "early"))
	if bag.Add(NewError(LexUnknownChar, sp, "dropped")) {
		t.Fatal("Add beyond limit must report false")
	}

	bag.Sort()
	if got := bag.Items()[0].Message; got != "early" {
		t.Errorf("first after Sort = %q", got)
	}
	bag.Dedup()
	if bag.Len() != 2 {
		t.Errorf("Len after Dedup = %d, want 2", bag.Len())
	}
	if !bag.HasErrors() || !bag.HasWarnings() {
		t.Error("expected both errors and warnings")
	}

	other := NewBag(2)
	other.Add(NewError(InternalInvariant, sp, "x"))
	other.Add(NewError(InternalInvariant, sp, "y"))
	bag.Merge(other)
	if bag.Len() != 4 || int(bag.Cap()) < 4 {
		t.Errorf("Merge: len=%d cap=%d", bag.Len(), bag.Cap())
	}
}

func TestCodeID(t *testing.T) {
	cases := map[Code]string{
		LexUnknownChar:    "LEX1001",
		SynBadArity:       "SYN2301",
		SemaErrorNode:     "SEM3001",
		IOLoadFileError:   "IO4001",
		InternalInvariant: "INT9001",
		UnknownCode:       "E0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", code, got, want)
		}
	}
	if Code(7777).Title() != "Unknown error" {
		t.Error("unknown code title")
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(10)
	r := NewDedupReporter(BagReporter{Bag: bag})
	sp := source.Span{Start: 1, End: 2}
	ReportError(r, SynUnclosedParen, sp, "unclosed").Emit()
	ReportError(r, SynUnclosedParen, sp, "unclosed").WithNote(sp, "opened here").Emit()
	b := ReportWarning(r, SynTrailingInput, sp, "trailing")
	b.Emit()
	b.Emit()
	if bag.Len() != 2 {
		t.Fatalf("Len = %d, want 2", bag.Len())
	}
}
