// Command staticlint is the project's static analysis binary. It combines
// analyzers from the Go toolchain, third-party analyzers, a selection of
// staticcheck checks and the project analyzer nostdoutprint into a single
// multichecker.Main invocation.
//
// The staticcheck selection is read from config.json next to the binary,
// or from the file named by STATICLINT_CONFIG. Without a config file every
// SA check is enabled.
package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	// Standard analyzers from the Go toolchain.
	"golang.org/x/tools/go/analysis/passes/copylock"
	"golang.org/x/tools/go/analysis/passes/errorsas"
	"golang.org/x/tools/go/analysis/passes/loopclosure"
	"golang.org/x/tools/go/analysis/passes/lostcancel"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/structtag"
	"golang.org/x/tools/go/analysis/passes/unmarshal"
	"golang.org/x/tools/go/analysis/passes/unreachable"

	// Third-party analyzers.
	"github.com/gordonklaus/ineffassign/pkg/ineffassign"
	"github.com/gostaticanalysis/nilerr"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/multichecker"
	"honnef.co/go/tools/staticcheck"

	"github.com/patric-chuzhbe/userfinder/cmd/staticlint/nostdoutprint"
)

// ConfigFile is the default name of the staticcheck selection file.
const ConfigFile = `config.json`

// ConfigData lists enabled staticcheck analyzers by name, e.g. "SA1000".
type ConfigData struct {
	Staticcheck []string
}

func loadConfig() (*ConfigData, error) {
	path := os.Getenv("STATICLINT_CONFIG")
	if path == "" {
		appfile, err := os.Executable()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(filepath.Dir(appfile), ConfigFile)
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var cfg ConfigData
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func staticcheckAnalyzers(cfg *ConfigData) []*analysis.Analyzer {
	enabled := make(map[string]bool)
	if cfg != nil {
		for _, name := range cfg.Staticcheck {
			enabled[name] = true
		}
	}

	var result []*analysis.Analyzer
	for _, v := range staticcheck.Analyzers {
		name := v.Analyzer.Name
		if enabled[name] || (cfg == nil && strings.HasPrefix(name, "SA")) {
			result = append(result, v.Analyzer)
		}
	}
	return result
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		panic(err)
	}

	checks := []*analysis.Analyzer{
		copylock.Analyzer,
		errorsas.Analyzer,
		loopclosure.Analyzer,
		lostcancel.Analyzer,
		printf.Analyzer,
		structtag.Analyzer,
		unmarshal.Analyzer,
		unreachable.Analyzer,

		ineffassign.Analyzer,
		nilerr.Analyzer,

		nostdoutprint.Analyzer,
	}

	checks = append(checks, staticcheckAnalyzers(cfg)...)

	multichecker.Main(checks...)
}
