package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/PabloGalante/applyai-api/internal/domain"
)

func TestKindOfWrappedError(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("handler: %w", domain.UpstreamProviderError("chat.send", cause))

	if got := domain.KindOf(err); got != domain.KindUpstreamProvider {
		t.Fatalf("expected upstream kind, got %v", got)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable with errors.Is")
	}
}

func TestKindOfPlainError(t *testing.T) {
	if got := domain.KindOf(errors.New("boom")); got != 0 {
		t.Fatalf("expected zero kind, got %v", got)
	}
}

func TestValidationErrorCarriesField(t *testing.T) {
	err := domain.ValidationError("resume.tailor", "job_description", "is required")

	var de *domain.Error
	if !errors.As(err, &de) {
		t.Fatalf("expected *domain.Error")
	}
	if de.Field != "job_description" {
		t.Fatalf("unexpected field %q", de.Field)
	}
	if !domain.IsKind(err, domain.KindValidation) {
		t.Fatalf("expected validation kind")
	}
}
