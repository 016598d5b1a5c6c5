package errors

import (
	"strings"
	"testing"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "batch.json", false},
		{"valid nested", "data/runs/2024/batch.json", false},
		{"valid absolute", "/tmp/batch.json", false},
		{"valid parent", "../batch.json", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 5000), true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateSentence(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty", "", false},
		{"plain", "The cat sat.", false},
		{"unicode", "Le chat s'est assis. Très bien!", false},
		{"multiline", "One.\nTwo.", false},

		{"invalid utf8", "bad \xff byte", true},
		{"null byte", "foo\x00bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSentence(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSentence(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateSentence(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"lowercase", "agent", false},
		{"hyphenated", "agent-of", false},
		{"underscored", "lex_source", false},
		{"uppercase", "THEME", false},
		{"digits", "arg2", false},

		{"empty", "", true},
		{"leading hyphen", "-agent", true},
		{"leading digit", "2nd", true},
		{"space", "agent of", true},
		{"too long", "a" + strings.Repeat("b", 200), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKey(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateKey(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidKey) {
				t.Errorf("ValidateKey(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateChoice(t *testing.T) {
	if err := ValidateChoice("format", "json", "json", "text"); err != nil {
		t.Errorf("ValidateChoice(json) = %v, want nil", err)
	}

	err := ValidateChoice("format", "xml", "json", "text")
	if !Is(err, ErrCodeInvalidFormat) {
		t.Fatalf("ValidateChoice(xml) = %v, want INVALID_FORMAT", err)
	}
	if !strings.Contains(err.Error(), "json, text") {
		t.Errorf("error %q should list allowed values", err)
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidGraph,
		ErrCodeInvalidConfig,
		ErrCodeInvalidFormat,
		ErrCodeInvalidPath,
		ErrCodeInvalidKey,
		ErrCodeFileNotFound,
		ErrCodeLexiconLoad,
		ErrCodeCache,
		ErrCodeTimeout,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
