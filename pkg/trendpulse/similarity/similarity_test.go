package similarity

import "testing"

func setOf(items ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(items))
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}

func TestBigrams(t *testing.T) {
	got := Bigrams("abc")
	want := setOf("ab", "bc")
	if len(got) != len(want) {
		t.Fatalf("Bigrams(\"abc\") has %d entries, want %d", len(got), len(want))
	}
	for k := range want {
		if _, ok := got[k]; !ok {
			t.Errorf("Bigrams(\"abc\") missing %q", k)
		}
	}
}

func TestBigramsNormalizes(t *testing.T) {
	// Punctuation and case disappear before windowing.
	a := Bigrams("A-B c!")
	b := Bigrams("abc")
	if Jaccard(a, b) != 1 {
		t.Errorf("Bigrams should operate on normalized text: %v vs %v", a, b)
	}
}

func TestBigramsEdgeCases(t *testing.T) {
	if got := Bigrams(""); len(got) != 0 {
		t.Errorf("Bigrams(\"\") = %v, want empty set", got)
	}
	if got := Bigrams("!!!"); len(got) != 0 {
		t.Errorf("Bigrams(\"!!!\") = %v, want empty set", got)
	}

	// Single normalized rune: singleton set of that rune.
	got := Bigrams("中!")
	if len(got) != 1 {
		t.Fatalf("Bigrams(\"中!\") = %v, want singleton", got)
	}
	if _, ok := got["中"]; !ok {
		t.Errorf("Bigrams(\"中!\") = %v, want {中}", got)
	}
}

func TestBigramsCJK(t *testing.T) {
	got := Bigrams("你好世界")
	for _, w := range []string{"你好", "好世", "世界"} {
		if _, ok := got[w]; !ok {
			t.Errorf("Bigrams(\"你好世界\") missing %q", w)
		}
	}
	if len(got) != 3 {
		t.Errorf("Bigrams(\"你好世界\") has %d entries, want 3", len(got))
	}
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		name string
		a, b map[string]struct{}
		want float64
	}{
		{"both empty", setOf(), setOf(), 1},
		{"one empty", setOf("ab"), setOf(), 0},
		{"identical", setOf("ab", "bc"), setOf("ab", "bc"), 1},
		{"disjoint", setOf("ab"), setOf("cd"), 0},
		{"half overlap", setOf("ab", "bc", "cd"), setOf("bc", "cd", "de"), 0.5},
	}

	for _, tt := range tests {
		if got := Jaccard(tt.a, tt.b); got != tt.want {
			t.Errorf("%s: Jaccard = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestJaccardSymmetric(t *testing.T) {
	a := Bigrams("bitcoin surges past record")
	b := Bigrams("bitcoin surges to new record high")
	if Jaccard(a, b) != Jaccard(b, a) {
		t.Error("Jaccard is not symmetric")
	}
}

func TestJaccardRange(t *testing.T) {
	a := Bigrams("特斯拉发布新款机器人")
	b := Bigrams("特斯拉机器人发布")
	got := Jaccard(a, b)
	if got < 0 || got > 1 {
		t.Errorf("Jaccard = %v, want value in [0,1]", got)
	}
	if got == 0 {
		t.Error("overlapping CJK titles should have non-zero similarity")
	}
}
