package diag

import (
	"errors"
	"testing"

	"frel/internal/source"
)

type stubCause struct{ name string }

func (e *stubCause) Error() string { return e.name }

func TestCodeStage(t *testing.T) {
	tests := []struct {
		code Code
		want Stage
		id   string
	}{
		{LexInvalidEscape, StageLex, "LEX1003"},
		{SynUnexpectedToken, StageParse, "SYN2001"},
		{SemaCyclicInclude, StageValidate, "SEM3002"},
		{FirPayloadTooLarge, StageEncode, "FIR4002"},
		{UnknownCode, StageUnknown, "E0000"},
	}
	for _, tt := range tests {
		if got := tt.code.Stage(); got != tt.want {
			t.Errorf("%v.Stage() = %v, want %v", tt.code, got, tt.want)
		}
		if got := tt.code.ID(); got != tt.id {
			t.Errorf("%v.ID() = %q, want %q", tt.code, got, tt.id)
		}
	}
}

func TestBagLimitAndCounts(t *testing.T) {
	bag := NewBag(2)
	if !bag.Add(NewError(SynUnexpectedToken, source.Span{}, "a")) {
		t.Fatal("first add rejected")
	}
	if !bag.Add(New(SevWarning, SemaUnknownReference, source.Span{}, "b")) {
		t.Fatal("second add rejected")
	}
	if bag.Add(NewError(SynUnexpectedToken, source.Span{}, "c")) {
		t.Fatal("add beyond limit accepted")
	}
	if !bag.HasErrors() || !bag.HasWarnings() {
		t.Fatal("expected both errors and warnings")
	}
	if bag.ErrorCount() != 1 || len(bag.Warnings()) != 1 {
		t.Fatalf("counts: errors=%d warnings=%d", bag.ErrorCount(), len(bag.Warnings()))
	}
}

func TestBagSortAndDedup(t *testing.T) {
	bag := NewBag(0)
	bag.Add(NewError(SynUnexpectedToken, source.Span{Start: 9, End: 10}, "late"))
	bag.Add(NewError(LexUnexpectedByte, source.Span{Start: 1, End: 2}, "early"))
	bag.Add(NewError(LexUnexpectedByte, source.Span{Start: 1, End: 2}, "early"))
	bag.Add(New(SevWarning, SemaUnknownReference, source.Span{Start: 1, End: 2}, "warn"))

	bag.Sort()
	bag.Dedup()

	items := bag.Items()
	if len(items) != 3 {
		t.Fatalf("expected 3 items after dedup, got %d", len(items))
	}
	if items[0].Message != "early" || items[1].Message != "warn" || items[2].Message != "late" {
		t.Fatalf("unexpected order: %q %q %q", items[0].Message, items[1].Message, items[2].Message)
	}
}

func TestBagErrUnwrapsCauses(t *testing.T) {
	bag := NewBag(0)
	if bag.Err() != nil {
		t.Fatal("empty bag must not produce an error")
	}
	cause := &stubCause{name: "cycle"}
	Report(BagReporter{Bag: bag}, NewError(SemaCyclicInclude, source.Span{}, "cycle").WithCause(cause))
	Report(BagReporter{Bag: bag}, NewWarning(SemaUnknownReference, source.Span{}, "warn"))

	err := bag.Err()
	if err == nil {
		t.Fatal("expected error")
	}
	var target *stubCause
	if !errors.As(err, &target) || target != cause {
		t.Fatalf("errors.As did not reach the cause: %v", err)
	}
	var agg *Error
	if !errors.As(err, &agg) || len(agg.Diagnostics) != 1 {
		t.Fatalf("aggregate should hold only errors, got %+v", agg)
	}
	if got := agg.Error(); got != "validate error SEM3002: cycle" {
		t.Fatalf("Error() = %q", got)
	}
}

func TestReportHelpers(t *testing.T) {
	Report(nil, NewError(SynUnclosedBlock, source.Span{}, "dropped"))

	var got []Diagnostic
	counting := &CountingReporter{Next: ReporterFunc(func(d Diagnostic) { got = append(got, d) })}
	d := NewError(SynUnclosedBlock, source.Span{}, "x").WithNote(source.Span{Start: 3}, "opened here")
	Report(counting, d)
	Report(counting, NewWarning(SemaUnknownReference, source.Span{}, "w"))

	if counting.Errors != 1 || len(got) != 2 {
		t.Fatalf("errors=%d forwarded=%d", counting.Errors, len(got))
	}
	if len(got[0].Notes) != 1 || got[0].Notes[0].Msg != "opened here" {
		t.Fatalf("note lost: %+v", got[0])
	}
}
