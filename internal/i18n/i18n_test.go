// AngelaMos | 2026
// i18n_test.go

package i18n_test

import (
	"testing"

	"golang.org/x/text/language"

	"github.com/carterperez-dev/templates/course-gate/internal/i18n"
)

func TestTag(t *testing.T) {
	tests := []struct {
		in   string
		want language.Tag
	}{
		{"", language.English},
		{"en", language.English},
		{"es", language.Spanish},
		{"es-ES", language.Spanish},
		{"es-MX,es;q=0.9,en;q=0.8", language.Spanish},
		{"fr-FR", language.English},
	}

	for _, tt := range tests {
		if got := i18n.Tag(tt.in); got != tt.want {
			t.Errorf("Tag(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPrinterFallsBackToEnglish(t *testing.T) {
	if got := i18n.Printer("fr").Sprintf(i18n.MsgHome); got != "Home" {
		t.Errorf("fr home = %q", got)
	}
	if got := i18n.Printer("es").Sprintf(i18n.MsgHome); got != "Inicio" {
		t.Errorf("es home = %q", got)
	}
	if got := i18n.Printer("en").Sprintf(i18n.MsgModuleCompleted, 2); got != "Module 2 completed!" {
		t.Errorf("en completed = %q", got)
	}
}
