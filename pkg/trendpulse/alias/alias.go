// Package alias canonicalizes trend keywords through a synonym rule set:
// - Synonyms: different spellings of one entity (btc ↔ bitcoin ↔ 比特币)
// - Cross-script variants: the same entity in Latin and CJK (nvidia ↔ 英伟达)
// - Display selection: the best human-readable form among a day's sightings
//
// Design principles:
//   - Built once from rules, then read-only: safe for concurrent comparisons
//   - Idempotent and case-insensitive canonicalization
//   - Unknown keywords pass through as their trimmed original
package alias

import (
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Rule maps one canonical keyword to its known variants.
type Rule struct {
	Canonical string   `yaml:"canonical"`
	Variants  []string `yaml:"variants"`
}

// Matcher resolves raw keywords to canonical forms and back. Construct via
// NewMatcher and treat as immutable afterwards; rebuilding on rule updates
// must swap the whole Matcher, never mutate one in flight.
type Matcher struct {
	// canonical (lowercase key) -> all variants including the canonical itself
	variants map[string][]string

	// variant (lowercase) -> canonical display form
	reverse map[string]string

	// canonical lowercase key -> canonical as written in the rule
	display map[string]string
}

// NewMatcher builds a matcher from the given rules. Every variant and the
// canonical itself map case-insensitively to the canonical; when two rules
// claim the same variant, the later rule wins.
func NewMatcher(rules []Rule) *Matcher {
	m := &Matcher{
		variants: make(map[string][]string),
		reverse:  make(map[string]string),
		display:  make(map[string]string),
	}
	for _, r := range rules {
		m.addRule(r)
	}
	return m
}

// LoadFromYAML reads rules from a YAML file and builds a matcher.
//
// Expected format:
//
//	synonyms:
//	  - canonical: 比特币
//	    variants: [btc, bitcoin]
//	  - canonical: 英伟达
//	    variants: [nvidia, nvda]
func LoadFromYAML(path string) (*Matcher, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg struct {
		Synonyms []Rule `yaml:"synonyms"`
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return NewMatcher(cfg.Synonyms), nil
}

func (m *Matcher) addRule(r Rule) {
	canonical := strings.TrimSpace(r.Canonical)
	if canonical == "" {
		return
	}
	key := strings.ToLower(canonical)

	// Re-registering a canonical replaces its previous group.
	if old, ok := m.variants[key]; ok {
		for _, v := range old {
			delete(m.reverse, v)
		}
	}

	group := make([]string, 0, len(r.Variants)+1)
	seen := make(map[string]struct{}, len(r.Variants)+1)

	group = append(group, key)
	seen[key] = struct{}{}

	for _, v := range r.Variants {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		group = append(group, v)
	}

	m.variants[key] = group
	m.display[key] = canonical
	for _, v := range group {
		m.reverse[v] = canonical
	}
}

// Canonicalize resolves a raw keyword to its canonical form. The lookup is
// case-insensitive; an unknown keyword canonicalizes to its trimmed (not
// lowercased) original. Idempotent: canonical forms resolve to themselves.
func (m *Matcher) Canonicalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if canonical, ok := m.reverse[strings.ToLower(trimmed)]; ok {
		return canonical
	}
	return trimmed
}

// Variants returns all registered variant strings (lowercased, canonical
// included) for a keyword. Accepts either a canonical or any of its
// variants. An unknown keyword yields a singleton holding its own trimmed
// lowercase form, so unknown keywords remain textually matchable.
func (m *Matcher) Variants(keyword string) []string {
	key := strings.ToLower(strings.TrimSpace(keyword))
	if group, ok := m.variants[key]; ok {
		return group
	}
	if canonical, ok := m.reverse[key]; ok {
		if group, ok := m.variants[strings.ToLower(canonical)]; ok {
			return group
		}
	}
	return []string{key}
}

// Known reports whether the keyword appears in any rule.
func (m *Matcher) Known(keyword string) bool {
	_, ok := m.reverse[strings.ToLower(strings.TrimSpace(keyword))]
	return ok
}

// PickDisplay chooses the most representative human-readable form of a
// canonical keyword from the display strings observed that day. Most
// frequent wins; ties break to the shortest, then lexicographically first.
// Empty candidates fall back to the canonical itself.
func (m *Matcher) PickDisplay(canonical string, candidates []string) string {
	if len(candidates) == 0 {
		return canonical
	}

	counts := make(map[string]int, len(candidates))
	order := make([]string, 0, len(candidates))
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, ok := counts[c]; !ok {
			order = append(order, c)
		}
		counts[c]++
	}
	if len(order) == 0 {
		return canonical
	}

	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if counts[a] != counts[b] {
			return counts[a] > counts[b]
		}
		la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
		if la != lb {
			return la < lb
		}
		return a < b
	})
	return order[0]
}

// Rules returns the matcher's groups as rules, sorted by canonical. Useful
// for exporting an effective configuration.
func (m *Matcher) Rules() []Rule {
	out := make([]Rule, 0, len(m.variants))
	for key, group := range m.variants {
		r := Rule{Canonical: m.display[key]}
		// group[0] is the canonical key itself; the rest are variants.
		if len(group) > 1 {
			r.Variants = append([]string(nil), group[1:]...)
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Canonical < out[j].Canonical })
	return out
}

// DefaultRules is the built-in synonym set covering the entities the stock
// feeds mention most, across Latin and CJK spellings.
func DefaultRules() []Rule {
	return []Rule{
		{Canonical: "比特币", Variants: []string{"btc", "bitcoin"}},
		{Canonical: "以太坊", Variants: []string{"eth", "ethereum"}},
		{Canonical: "英伟达", Variants: []string{"nvidia", "nvda"}},
		{Canonical: "特斯拉", Variants: []string{"tesla", "tsla"}},
		{Canonical: "苹果", Variants: []string{"apple", "aapl"}},
		{Canonical: "谷歌", Variants: []string{"google", "alphabet", "googl"}},
		{Canonical: "微软", Variants: []string{"microsoft", "msft"}},
		{Canonical: "马斯克", Variants: []string{"musk", "elon musk", "elon"}},
		{Canonical: "人工智能", Variants: []string{"ai", "artificial intelligence"}},
		{Canonical: "大模型", Variants: []string{"llm", "large language model"}},
		{Canonical: "openai", Variants: []string{"open ai"}},
		{Canonical: "chatgpt", Variants: []string{"chat gpt", "gpt"}},
		{Canonical: "机器人", Variants: []string{"robot", "robots", "robotics", "humanoid"}},
		{Canonical: "芯片", Variants: []string{"chip", "chips", "semiconductor", "半导体"}},
		{Canonical: "美联储", Variants: []string{"fed", "federal reserve"}},
		{Canonical: "加息", Variants: []string{"rate hike", "rate hikes"}},
		{Canonical: "降息", Variants: []string{"rate cut", "rate cuts"}},
	}
}

// NewDefaultMatcher builds a matcher from DefaultRules.
func NewDefaultMatcher() *Matcher {
	return NewMatcher(DefaultRules())
}
