package google

import (
	"context"
	"testing"
)

func TestNewFromEnvRequiresArguments(t *testing.T) {
	if _, err := NewFromEnv(context.Background(), "", "Spending"); err == nil {
		t.Fatal("expected error for missing spreadsheet id")
	}
	if _, err := NewFromEnv(context.Background(), "sheet-123", "  "); err == nil {
		t.Fatal("expected error for missing report sheet name")
	}
}

func TestNewFromEnvRequiresCredentials(t *testing.T) {
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_FILE", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")

	if _, err := NewFromEnv(context.Background(), "sheet-123", "Spending"); err == nil {
		t.Fatal("expected error without service account credentials")
	}
}
