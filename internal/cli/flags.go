package cli

import (
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/whiskeyjimb/sitetools/internal/variables"
)

// addVariableFlags adds one string flag per declared build variable.
//
// Flag naming: snake_case variable names become kebab-case flags.
// Example: "veclibdir" -> "--veclibdir", "lib_dir" -> "--lib-dir"
//
// The default shown in help is the variable's default; only flags the user
// actually sets are applied, so config values are not overridden by
// defaults.
func addVariableFlags(cmd *cobra.Command, decls []variables.Variable) {
	for _, d := range decls {
		cmd.Flags().String(flagName(d.Key), d.Default, d.Help)
	}
}

// variableValuesFromFlags collects the build variables set via flags.
func variableValuesFromFlags(cmd *cobra.Command, decls []variables.Variable) map[string]string {
	keys := make(map[string]string, len(decls))
	for _, d := range decls {
		keys[flagName(d.Key)] = d.Key
	}

	values := make(map[string]string)
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if key, ok := keys[f.Name]; ok {
			values[key] = f.Value.String()
		}
	})
	return values
}

// mergeValues overlays flag values on key=value argument values.
func mergeValues(args, flags map[string]string) map[string]string {
	out := make(map[string]string, len(args)+len(flags))
	for k, v := range args {
		out[k] = v
	}
	for k, v := range flags {
		out[k] = v
	}
	return out
}

func flagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

// addToolFlag adds a repeatable --tool flag completing registered tool
// names.
func addToolFlag(cmd *cobra.Command, target *[]string, g *globals) {
	cmd.Flags().StringSliceVarP(target, "tool", "t", nil, "Tool to apply (repeatable; default from config)")
	_ = cmd.RegisterFlagCompletionFunc("tool", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return g.registry(io.Discard).Names(), cobra.ShellCompDirectiveNoFileComp
	})
}
