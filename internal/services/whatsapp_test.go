package services

import (
	"strings"
	"testing"

	"github.com/yungbote/clinicshare-backend/internal/types"
)

func TestBuildWhatsAppMessagePrefixesCoversAllLanguages(t *testing.T) {
	prefixes := BuildWhatsAppMessagePrefixes("Dr. Rao")
	if len(prefixes) != len(types.Languages) {
		t.Fatalf("got %d prefixes, want %d", len(prefixes), len(types.Languages))
	}
	for _, lang := range types.Languages {
		msg, ok := prefixes[lang.Code]
		if !ok {
			t.Fatalf("missing prefix for %s", lang.Code)
		}
		if msg == "" {
			t.Fatalf("empty prefix for %s", lang.Code)
		}
		if strings.Contains(msg, "{doctor}") {
			t.Fatalf("unfilled placeholder in %s prefix: %q", lang.Code, msg)
		}
	}
	if !strings.Contains(prefixes["en"], "Dr. Rao") {
		t.Fatalf("doctor name not substituted: %q", prefixes["en"])
	}
}

func TestBuildWhatsAppMessagePrefixesEmptyDoctorName(t *testing.T) {
	prefixes := BuildWhatsAppMessagePrefixes("")
	if !strings.Contains(prefixes["en"], "your doctor") {
		t.Fatalf("english fallback missing: %q", prefixes["en"])
	}
	for _, lang := range types.Languages {
		if strings.Contains(prefixes[lang.Code], "{doctor}") {
			t.Fatalf("placeholder leaked into %s prefix: %q", lang.Code, prefixes[lang.Code])
		}
	}
}

func TestWhatsAppShareLink(t *testing.T) {
	link := WhatsAppShareLink("hello world")
	if link != "https://wa.me/?text=hello+world" {
		t.Fatalf("unexpected link %q", link)
	}
}
