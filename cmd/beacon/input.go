package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/beacon/pkg/beacon/macro"
	"github.com/randalmurphal/beacon/pkg/beacon/util"
)

// inputFlags are the template and variable flags of resolve and fire.
type inputFlags struct {
	vars       []string
	file       string
	customCode bool
}

func (f *inputFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&f.vars, "var", nil, "Macro variable as NAME=VALUE (repeatable)")
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "YAML or JSON file with a (possibly nested) list of templates")
	cmd.Flags().BoolVar(&f.customCode, "custom-code", false, "Keep ERRORCODE values that are not three digits")
}

// templates collects templates from the file flag followed by args.
func (f *inputFlags) templates(args []string) ([]macro.Template, error) {
	var out []macro.Template
	if f.file != "" {
		fromFile, err := loadTemplateFile(f.file)
		if err != nil {
			return nil, err
		}
		out = append(out, fromFile...)
	}
	out = append(out, macro.Strings(args...)...)
	if len(out) == 0 {
		return nil, errors.New("no templates given: pass URLs as arguments or use --file")
	}
	return out, nil
}

// variables parses the repeated --var flags.
func (f *inputFlags) variables() (macro.Variables, error) {
	vars := make(macro.Variables, len(f.vars))
	for _, kv := range f.vars {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --var %q: want NAME=VALUE", kv)
		}
		vars[name] = value
	}
	return vars, nil
}

func (f *inputFlags) options() macro.ResolveOptions {
	return macro.ResolveOptions{IsCustomCode: f.customCode}
}

// loadTemplateFile reads a template list. Nested lists are flattened so
// event groups can be kept together in the file.
func loadTemplateFile(path string) ([]macro.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template file: %w", err)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse template file: %w", err)
	}

	list, ok := doc.([]any)
	if !ok {
		list = []any{doc}
	}

	flat := util.Flatten(list)
	templates := make([]macro.Template, len(flat))
	for i, v := range flat {
		templates[i] = macro.FromValue(v)
	}
	return templates, nil
}
