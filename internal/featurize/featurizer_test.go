package featurize

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"gonum.org/v1/gonum/floats"
)

var corpus = []string{
	"This was a horrible meal",
	"A bad, bad steak",
	"I love this spaghetti",
	"Great food and I love the staff",
	"horrible service and bad food",
}

func TestNormalize(t *testing.T) {
	got := strings.Fields(Normalize("Café<br /><br />GREAT"))
	want := []string{"cafe", "great"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize fields = %q, want %q", got, want)
	}
}

func TestNormalize_KeepsAngleBracketProse(t *testing.T) {
	cases := map[string]string{
		"I <3 this, 5 > 4":        "i <3 this, 5 > 4",
		"<b>Great</b> film":       " great  film",
		"a < b and c > d":         "a < b and c > d",
		"ok<br/>fine< BR >end":    "ok fine end",
		"<i class=\"x\">nice</i>": " nice ",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTokenize_CaseAndApostrophes(t *testing.T) {
	if a, b := Tokenize("LOVED it"), Tokenize("loved IT"); !reflect.DeepEqual(a, b) {
		t.Errorf("case changed tokens: %q vs %q", a, b)
	}
	if got := Tokenize("don't"); len(got) != 1 || strings.Contains(got[0], "'") {
		t.Errorf("Tokenize(don't) = %q", got)
	}
	if got := Tokenize("  ...!!  "); len(got) != 0 {
		t.Errorf("punctuation-only text produced tokens: %q", got)
	}
}

func TestTerms(t *testing.T) {
	got := Terms([]string{"a", "b", "c"}, 2)
	want := []string{"a", "b", "c", "a_b", "b_c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Terms = %q, want %q", got, want)
	}
	if got := Terms(nil, 2); len(got) != 0 {
		t.Errorf("Terms(nil) = %q", got)
	}
}

func TestFit_VocabularyIsSortedAndPruned(t *testing.T) {
	f, err := Fit(corpus, Options{NGram: 1, MinDF: 2})
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	s := f.State()
	for i := 1; i < len(s.Terms); i++ {
		if s.Terms[i-1] >= s.Terms[i] {
			t.Fatalf("terms not strictly sorted: %q", s.Terms)
		}
	}
	// "spaghetti" and "meal" appear in a single review and must be pruned.
	for _, term := range s.Terms {
		if term == Tokenize("spaghetti")[0] || term == Tokenize("meal")[0] {
			t.Errorf("term %q should have been pruned by MinDF", term)
		}
	}
	if f.Dim() != len(s.Terms) {
		t.Errorf("Dim() = %d, want %d", f.Dim(), len(s.Terms))
	}
}

func TestFit_MaxFeatures(t *testing.T) {
	f, err := Fit(corpus, Options{NGram: 2, MinDF: 1, MaxFeatures: 3})
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if f.Dim() != 3 {
		t.Errorf("Dim() = %d, want 3", f.Dim())
	}
}

func TestFit_Errors(t *testing.T) {
	if _, err := Fit(nil, DefaultOptions()); !errors.Is(err, ErrEmptyCorpus) {
		t.Errorf("Fit(nil) error = %v", err)
	}
	if _, err := Fit([]string{"one", "two"}, Options{NGram: 1, MinDF: 5}); !errors.Is(err, ErrEmptyVocabulary) {
		t.Errorf("Fit(high MinDF) error = %v", err)
	}
}

func TestTransform_DeterministicAndNormalized(t *testing.T) {
	f, err := Fit(corpus, Options{NGram: 2, MinDF: 1})
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	a := f.Transform("bad food, horrible staff")
	b := f.Transform("bad food, horrible staff")
	if !reflect.DeepEqual(a, b) {
		t.Errorf("Transform not deterministic: %+v vs %+v", a, b)
	}
	if a.Len() == 0 {
		t.Fatalf("expected known terms in vector")
	}
	for i := 1; i < len(a.Indices); i++ {
		if a.Indices[i-1] >= a.Indices[i] {
			t.Fatalf("indices not increasing: %v", a.Indices)
		}
	}
	if n := floats.Norm(a.Values, 2); math.Abs(n-1) > 1e-12 {
		t.Errorf("vector norm = %v, want 1", n)
	}
}

func TestTransform_UnknownAndEmpty(t *testing.T) {
	f, err := Fit(corpus, DefaultOptions())
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if v := f.Transform(""); v.Len() != 0 {
		t.Errorf("empty text produced %d features", v.Len())
	}
	if v := f.Transform("zzzz qqqq"); v.Len() != 0 {
		t.Errorf("unknown text produced %d features", v.Len())
	}
}

func TestState_RoundTrip(t *testing.T) {
	f, err := Fit(corpus, Options{NGram: 2, MinDF: 1})
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	g, err := FromState(f.State())
	if err != nil {
		t.Fatalf("FromState failed: %v", err)
	}
	for _, text := range corpus {
		if !reflect.DeepEqual(f.Transform(text), g.Transform(text)) {
			t.Errorf("restored featurizer differs on %q", text)
		}
	}
}

func TestFromState_Rejects(t *testing.T) {
	cases := []State{
		{},
		{Terms: []string{"a"}, IDF: []float64{1, 2}},
		{Terms: []string{"a", "a"}, IDF: []float64{1, 2}},
		{Terms: []string{"a"}, IDF: []float64{math.NaN()}},
	}
	for i, s := range cases {
		if _, err := FromState(s); !errors.Is(err, ErrBadState) {
			t.Errorf("case %d: error = %v, want ErrBadState", i, err)
		}
	}
}

func TestVector_DotAndAddScaled(t *testing.T) {
	v := Vector{Indices: []int{0, 2}, Values: []float64{0.5, 2}}
	w := []float64{2, 100, 3}
	if got := v.Dot(w); got != 7 {
		t.Errorf("Dot = %v, want 7", got)
	}
	dst := make([]float64, 3)
	v.AddScaledTo(dst, 2)
	if !reflect.DeepEqual(dst, []float64{1, 0, 4}) {
		t.Errorf("AddScaledTo = %v", dst)
	}
}
