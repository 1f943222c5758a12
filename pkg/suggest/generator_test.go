package suggest

import (
	"github.com/alvinbaena/pwd-analyzer/pkg/strength"
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	g := New()
	for i := 0; i < 10000; i++ {
		pwd := g.Generate()
		if len(pwd) != Length {
			t.Fatalf("Suggestion %q should have %d characters", pwd, Length)
		}

		for _, class := range required {
			if !strings.ContainsAny(pwd, class) {
				t.Fatalf("Suggestion %q should contain one of %q", pwd, class)
			}
		}

		for _, r := range pwd {
			if !strings.ContainsRune(All, r) {
				t.Fatalf("Suggestion %q has unexpected character %q", pwd, r)
			}
		}
	}
}

func TestGenerate_IsStrong(t *testing.T) {
	for i := 0; i < 1000; i++ {
		pwd := Generate()
		if v := strength.Classify(pwd); v.Tier != strength.Strong {
			t.Fatalf("Suggestion %q should be strong, got %s/%q", pwd, v.Tier, v.Reason)
		}
	}
}

func TestGenerate_RequiredCharactersMove(t *testing.T) {
	// With a fixed layout the first character would always be uppercase.
	firstUpper := 0
	const runs = 2000
	for i := 0; i < runs; i++ {
		if strings.ContainsRune(Upper, rune(Generate()[0])) {
			firstUpper++
		}
	}

	if firstUpper == runs {
		t.Errorf("Required characters should be shuffled")
	}
}

func TestGenerate_Unique(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		pwd := Generate()
		if _, ok := seen[pwd]; ok {
			t.Fatalf("Suggestion %q was repeated", pwd)
		}
		seen[pwd] = struct{}{}
	}
}
