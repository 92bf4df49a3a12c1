// =============================================================================
// Lançamentos Consolidator - Classifier
// =============================================================================
//
// The classifier assigns every parsed entry to one of the six fixed
// categories by keyword containment over the uppercased description.
//
// RULE EVALUATION:
//   Rules are an ordered slice. They are tried in order and the first rule
//   with a matching keyword wins, so a description such as
//   "ADICIONAL SOBRE HONORÁRIOS" is ADICIONAIS DIVERSOS, not HONORÁRIOS.
//   When no rule matches, the entry falls back to DEMAIS AÇÕES.
//
// CUSTOMIZATION:
//   The default rules can be replaced from the YAML configuration or from an
//   XLSX rules workbook (see internal/rulesbook). Replacement rules go through
//   New, which validates them.
//
// =============================================================================

package classifier

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ginjaninja78/lancamentos/internal/types"
	"golang.org/x/text/unicode/norm"
)

// ErrInvalidRules is returned by New when a rule set cannot be used.
var ErrInvalidRules = errors.New("invalid classification rules")

// Fallback is the category of entries that match no rule.
const Fallback = types.CategoryDemais

// =============================================================================
// RULES
// =============================================================================

// Rule maps a set of keywords to a category.
type Rule struct {
	Category types.Category `yaml:"category" json:"category"`
	Keywords []string       `yaml:"keywords" json:"keywords"`
}

// Matches reports whether desc contains any keyword of the rule.
func (r Rule) Matches(desc string) bool {
	for _, kw := range r.Keywords {
		if strings.Contains(desc, kw) {
			return true
		}
	}
	return false
}

// DefaultRules returns the built-in rule set in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		{
			Category: types.CategoryIndenizacoes,
			Keywords: []string{
				"ACIDENTE", "ACIDENTE DE TRABALHO",
				"VEICULO LOCADO", "VEÍCULOS LOCADOS", "LOCAÇÃO", "LOCAÇÃO DE VEICULOS", "LOCAÇÃO DE VEÍCULOS",
				"DOENÇA", "DOENÇAS DO TRABALHO",
				"DANO MORAL", "DANOS MORAIS", "DANO MATERIAL", "DANOS MATERIAIS",
				"INDENIZAÇÃO", "INDENIZACAO",
				"VALE TRANSPORTE", "VALE-TRANSPORTE",
				"VALE ALIMENTAÇÃO", "VALE-ALIMENTAÇÃO", "VALE REFEIÇÃO", "VALE-REFEIÇÃO",
				"RESCISÃO INDIRETA", "RESCISAO INDIRETA",
				"MULTA ART. 477", "MULTA ART. 467",
			},
		},
		{
			Category: types.CategoryHorasExtras,
			Keywords: []string{"HORA EXTRA", "HORAS EXTRAS", "INTERVALO INTRAJORNADA", "INTERVALO INTERJORNADA"},
		},
		{
			Category: types.CategoryAdicionais,
			Keywords: []string{"ADICIONAL", "INSALUBRIDADE", "PERICULOSIDADE", "NOTURNO", "DSR"},
		},
		{
			Category: types.CategoryDiferencas,
			Keywords: []string{"DIFERENÇA", "SALARIAL", "REAJUSTE"},
		},
		{
			Category: types.CategoryHonorarios,
			Keywords: []string{"HONORÁRIO", "ADVOCATÍCIO", "PERICIA"},
		},
	}
}

// =============================================================================
// CLASSIFIER
// =============================================================================

// Classifier evaluates an ordered rule set. It is immutable after New and
// safe for concurrent use.
type Classifier struct {
	rules []Rule
}

// New validates rules and returns a Classifier that evaluates them in order.
//
// VALIDATION:
//   - At least one rule.
//   - Every category is one of the fixed categories other than the fallback.
//   - Every rule has at least one non-blank keyword.
//
// Keywords are trimmed, NFC-normalised and uppercased, matching the form
// of decoded input text. The input slice is not modified.
func New(rules []Rule) (*Classifier, error) {
	if len(rules) == 0 {
		return nil, fmt.Errorf("%w: no rules", ErrInvalidRules)
	}

	normalized := make([]Rule, 0, len(rules))
	for i, rule := range rules {
		cat, ok := types.ParseCategory(string(rule.Category))
		if !ok {
			return nil, fmt.Errorf("%w: rule %d: unknown category %q", ErrInvalidRules, i+1, rule.Category)
		}
		if cat == Fallback {
			return nil, fmt.Errorf("%w: rule %d: %s is the fallback category and cannot have keywords", ErrInvalidRules, i+1, cat)
		}

		keywords := make([]string, 0, len(rule.Keywords))
		for _, kw := range rule.Keywords {
			kw = strings.ToUpper(norm.NFC.String(strings.TrimSpace(kw)))
			if kw != "" {
				keywords = append(keywords, kw)
			}
		}
		if len(keywords) == 0 {
			return nil, fmt.Errorf("%w: rule %d (%s) has no keywords", ErrInvalidRules, i+1, cat)
		}

		normalized = append(normalized, Rule{Category: cat, Keywords: keywords})
	}

	return &Classifier{rules: normalized}, nil
}

// Default returns a Classifier over DefaultRules.
func Default() *Classifier {
	c, err := New(DefaultRules())
	if err != nil {
		panic(err)
	}
	return c
}

// Rules returns a copy of the rules in evaluation order.
func (c *Classifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	for i, r := range c.rules {
		kws := make([]string, len(r.Keywords))
		copy(kws, r.Keywords)
		out[i] = Rule{Category: r.Category, Keywords: kws}
	}
	return out
}

// Classify returns the category of a description. It never fails: a
// description that matches no rule is Fallback.
func (c *Classifier) Classify(description string) types.Category {
	desc := strings.ToUpper(description)
	for _, rule := range c.rules {
		if rule.Matches(desc) {
			return rule.Category
		}
	}
	return Fallback
}

// ClassifyAll classifies every entry, preserving order.
func (c *Classifier) ClassifyAll(entries []types.ParsedEntry) []types.CategorizedEntry {
	out := make([]types.CategorizedEntry, len(entries))
	for i, e := range entries {
		out[i] = types.CategorizedEntry{ParsedEntry: e, Category: c.Classify(e.Description)}
	}
	return out
}
