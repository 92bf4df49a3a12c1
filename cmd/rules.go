// =============================================================================
// Lançamentos Consolidator - Rules Command
// =============================================================================
//
// COMMAND USAGE:
//   lancamentos rules                     # print the effective rules
//   lancamentos rules --yaml              # print them as a config snippet
//   lancamentos rules --export regras.xlsx [--force]
//
// The effective rules are the rules workbook when configured, otherwise the
// YAML rules, otherwise the built-in set. Rules are evaluated top to bottom
// and the first matching keyword wins.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/ginjaninja78/lancamentos/internal/classifier"
	"github.com/ginjaninja78/lancamentos/internal/config"
	"github.com/ginjaninja78/lancamentos/internal/converter"
	"github.com/ginjaninja78/lancamentos/internal/rulesbook"
	"github.com/ginjaninja78/lancamentos/pkg/utils"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	rulesExport string
	rulesYAML   bool
	rulesForce  bool
)

// rulesCmd represents the 'rules' command.
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Show or export the classification rules",
	Long: `Show the classification rules in evaluation order.

With --export the rules are written to an XLSX workbook that can be edited
and set as classification.rules_workbook. With --yaml they are printed as a
classification.rules block for the configuration file.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		cls, err := converter.LoadClassifier(appConfig)
		if err != nil {
			return fmt.Errorf("failed to load classification rules: %w", err)
		}

		out := cmd.OutOrStdout()
		switch {
		case rulesExport != "":
			if utils.FileExists(rulesExport) && !rulesForce {
				return fmt.Errorf("%s already exists (use --force to overwrite)", rulesExport)
			}
			if err := rulesbook.Save(rulesExport, cls.Rules()); err != nil {
				return err
			}
			fmt.Fprintf(out, "Rules written to %s\n", rulesExport)
			return nil
		case rulesYAML:
			return writeRulesYAML(out, cls.Rules())
		default:
			writeRules(out, cls.Rules())
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)

	rulesCmd.Flags().StringVar(&rulesExport, "export", "", "Write the rules to an XLSX workbook")
	rulesCmd.Flags().BoolVar(&rulesYAML, "yaml", false, "Print the rules as a configuration snippet")
	rulesCmd.Flags().BoolVar(&rulesForce, "force", false, "Overwrite an existing --export file")
}

func writeRules(w io.Writer, rules []classifier.Rule) {
	for i, rule := range rules {
		fmt.Fprintf(w, "%d. %s\n", i+1, rule.Category)
		fmt.Fprintf(w, "   %s\n", strings.Join(rule.Keywords, ", "))
	}
	fmt.Fprintf(w, "Anything else: %s\n", classifier.Fallback)
}

// writeRulesYAML prints the rules in the shape of the configuration file.
func writeRulesYAML(w io.Writer, rules []classifier.Rule) error {
	var doc struct {
		Classification config.ClassificationSettings `yaml:"classification"`
	}
	for _, rule := range rules {
		doc.Classification.Rules = append(doc.Classification.Rules, config.RuleConfig{
			Category: string(rule.Category),
			Keywords: rule.Keywords,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode rules: %w", err)
	}
	return enc.Close()
}
