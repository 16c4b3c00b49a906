// Package writer renders the accumulated binding and helper lines into
// their output files. The binding file carries the module header, imports
// and an include of the translated header; the helper file carries the
// trampoline macro invocations for inline functions.
package writer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/hscgen/hscgen/pkg/hsc"
)

// Config controls file naming and placement.
type Config struct {
	Prefix    string // module namespace prefix, e.g. "Bindings"
	OutDir    string // destination directory; empty writes next to the input
	Overwrite bool   // allow clobbering existing output files
}

const bindingTemplate = `{-# OPTIONS_GHC -fno-warn-unused-imports #-}
#include <bindings.dsl.h>
#include "{{.Header}}"
module {{.Module}} where
import Foreign.Ptr
#strict_import

{{range .Lines}}{{.}}
{{end}}`

const helperTemplate = `#include <bindings.cmacros.h>
#include "{{.Header}}"

{{range .Lines}}{{.}}
{{end}}`

var (
	bindingTmpl = template.Must(template.New("binding").Parse(bindingTemplate))
	helperTmpl  = template.Must(template.New("helper").Parse(helperTemplate))
)

type fileData struct {
	Header string
	Module string
	Lines  []string
}

// Write renders the accumulator for one translated header. It returns the
// paths written; the helper path is empty when the unit produced no helper
// lines.
func Write(header string, acc *hsc.Accumulator, cfg Config) (string, string, error) {
	base := strings.TrimSuffix(filepath.Base(header), filepath.Ext(header))
	dir := cfg.OutDir
	if dir == "" {
		dir = filepath.Dir(header)
	}

	hscPath := filepath.Join(dir, base+".hsc")
	data := fileData{
		Header: filepath.Base(header),
		Module: ModuleName(cfg.Prefix, header),
		Lines:  acc.Bindings(),
	}
	if err := writeTemplate(hscPath, bindingTmpl, data, cfg.Overwrite); err != nil {
		return "", "", err
	}

	if len(acc.Helpers()) == 0 {
		return hscPath, "", nil
	}

	helperPath := filepath.Join(dir, base+".hsc.helper.h")
	data.Lines = acc.Helpers()
	if err := writeTemplate(helperPath, helperTmpl, data, cfg.Overwrite); err != nil {
		return "", "", err
	}
	return hscPath, helperPath, nil
}

func writeTemplate(path string, tmpl *template.Template, data fileData, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --overwrite to replace)", path)
		}
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return fmt.Errorf("rendering %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ModuleName derives the generated module's name from the header file name
// and an optional namespace prefix: snake and kebab segments become
// CamelCase, so `audio_mixer.h` with prefix `Bindings` maps to
// `Bindings.AudioMixer`.
func ModuleName(prefix, header string) string {
	base := strings.TrimSuffix(filepath.Base(header), filepath.Ext(header))
	var sb strings.Builder
	upper := true
	for _, r := range base {
		switch {
		case r == '_' || r == '-' || r == '.':
			upper = true
		case upper:
			sb.WriteString(strings.ToUpper(string(r)))
			upper = false
		default:
			sb.WriteRune(r)
		}
	}
	name := sb.String()
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
