package errors

import (
	stdErrors "errors"
	"net/http"
	"testing"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("connection refused")
	err := Wrap(CodeRemoteUnavailable, cause, "remote query failed")

	if !stdErrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable via errors.Is")
	}
	typed := As(err)
	if typed == nil {
		t.Fatal("expected typed error")
	}
	if typed.Code() != CodeRemoteUnavailable {
		t.Fatalf("unexpected code: %s", typed.Code())
	}
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("BOGUS"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal metadata, got status %d", meta.HTTPStatus)
	}
}

func TestIsCode(t *testing.T) {
	err := New(CodeNotFound, "order missing")
	if !IsCode(err, CodeNotFound) {
		t.Fatal("expected IsCode to match")
	}
	if IsCode(err, CodeAuthFailed) {
		t.Fatal("expected IsCode mismatch")
	}
	if IsCode(stdErrors.New("plain"), CodeNotFound) {
		t.Fatal("plain errors carry no code")
	}
}
