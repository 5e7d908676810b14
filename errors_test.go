package ppp

import (
	"errors"
	"testing"
)

func TestErrorKindString(t *testing.T) {
	cases := []struct {
		kind ErrorKind
		want string
	}{
		{InvalidSecretsFormat, "InvalidSecretsFormat"},
		{UnknownChannel, "UnknownChannel"},
		{OversizedFrame, "OversizedFrame"},
		{OversizedSubscriptionRange, "OversizedSubscriptionRange"},
		{InvalidRange, "InvalidRange"},
		{CryptoFailure, "CryptoFailure"},
	}
	for _, c := range cases {
		if got := c.kind.String(); got != c.want {
			t.Errorf("%d.String() = %q, want %q", c.kind, got, c.want)
		}
	}
}

func TestErrorKindStringOutOfRange(t *testing.T) {
	got := ErrorKind(200).String()
	want := "ErrorKind(200)"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestErrorfAndWrapErrorf(t *testing.T) {
	e := errorf(InvalidRange, "start %d > end %d", 5, 1)
	if e.Kind() != InvalidRange {
		t.Fatalf("Kind() = %v, want InvalidRange", e.Kind())
	}
	if e.Inner() != nil {
		t.Fatalf("Inner() = %v, want nil", e.Inner())
	}
	if e.Error() != "start 5 > end 1" {
		t.Fatalf("Error() = %q", e.Error())
	}

	inner := errors.New("boom")
	w := wrapErrorf(CryptoFailure, inner, "signing failed")
	if w.Kind() != CryptoFailure {
		t.Fatalf("Kind() = %v, want CryptoFailure", w.Kind())
	}
	if w.Inner() != inner {
		t.Fatalf("Inner() = %v, want %v", w.Inner(), inner)
	}
	if w.Error() != "signing failed: boom" {
		t.Fatalf("Error() = %q", w.Error())
	}
}
