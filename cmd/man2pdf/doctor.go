package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"

	"github.com/go-rod/rod/lib/launcher"

	man2pdf "github.com/alnah/go-man2pdf"
	"github.com/alnah/go-man2pdf/internal/fileutil"
	"github.com/alnah/go-man2pdf/internal/hints"
)

// Doctor status values.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"` // "ready", "warnings", "errors"
	Engine   string     `json:"engine"`
	Man      toolInfo   `json:"man"`
	Filter   toolInfo   `json:"filter"`
	Chrome   toolInfo   `json:"chrome"`
	Output   outputInfo `json:"output"`
	Env      envInfo    `json:"environment"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// toolInfo holds the lookup result for one external program.
type toolInfo struct {
	Name  string `json:"name,omitempty"`
	Found bool   `json:"found"`
	Path  string `json:"path,omitempty"`
}

// outputInfo holds output directory checks.
type outputInfo struct {
	Dir      string `json:"dir"`
	Exists   bool   `json:"exists"`
	Writable bool   `json:"writable"`
}

// envInfo holds platform and environment detection results.
type envInfo struct {
	OS         string `json:"os"`
	Arch       string `json:"arch"`
	MaxProcs   int    `json:"gomaxprocs"`
	PoolSize   int    `json:"parallel_pool_size"`
	Container  bool   `json:"container"`
	NoSandbox  string `json:"rod_no_sandbox"`
	BrowserBin string `json:"rod_browser_bin"`
}

// doctorProbe locates external programs and reads the environment.
type doctorProbe struct {
	lookPath   func(file string) (string, error)
	chromePath func() (string, bool)
	container  func() bool
	getenv     func(key string) string
}

// defaultProbe inspects the real system.
func defaultProbe() doctorProbe {
	return doctorProbe{
		lookPath: exec.LookPath,
		chromePath: func() (string, bool) {
			if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
				return bin, fileutil.FileExists(bin)
			}
			return launcher.LookPath()
		},
		container: hints.IsInContainer,
		getenv:    os.Getenv,
	}
}

// runDoctorCmd checks the environment for the resolved settings and returns
// an exit code: 0 when ready (warnings included), 1 when errors were found.
func runDoctorCmd(s *runSettings, jsonOutput bool, env *Environment) int {
	result := runDoctor(s, env.Probe)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(s *runSettings, probe doctorProbe) *doctorResult {
	result := &doctorResult{
		Status: statusReady,
		Engine: string(s.engine),
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			MaxProcs:   runtime.GOMAXPROCS(0),
			PoolSize:   man2pdf.ResolvePoolSize(s.workers, s.engine),
			Container:  probe.container(),
			NoSandbox:  probe.getenv("ROD_NO_SANDBOX"),
			BrowserBin: probe.getenv("ROD_BROWSER_BIN"),
		},
	}

	checkMan(result, s, probe)
	checkFilter(result, s, probe)
	checkChrome(result, s, probe)
	checkOutput(result, s)

	if len(result.Errors) > 0 {
		result.Status = statusErrors
	} else if len(result.Warnings) > 0 {
		result.Status = statusWarnings
	}

	return result
}

// checkMan locates the manual-page reader. Without it nothing converts.
func checkMan(result *doctorResult, s *runSettings, probe doctorProbe) {
	result.Man.Name = s.manPath
	path, err := probe.lookPath(s.manPath)
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Manual page reader %q not found. Install man-db or set man.path in the config", s.manPath))
		return
	}
	result.Man.Found = true
	result.Man.Path = path
}

// checkFilter locates the control-character filter. A missing filter only
// degrades to built-in stripping.
func checkFilter(result *doctorResult, s *runSettings, probe doctorProbe) {
	if len(s.filter) == 0 {
		return
	}
	result.Filter.Name = s.filter[0]
	path, err := probe.lookPath(s.filter[0])
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Filter %q not found. Built-in stripping will be used", s.filter[0]))
		return
	}
	result.Filter.Found = true
	result.Filter.Path = path
}

// checkChrome locates Chrome/Chromium. Missing Chrome is an error only for
// the chrome engine.
func checkChrome(result *doctorResult, s *runSettings, probe doctorProbe) {
	result.Chrome.Name = "chrome"
	path, found := probe.chromePath()
	if !found {
		if s.engine == man2pdf.EngineChrome {
			result.Errors = append(result.Errors,
				"Chrome/Chromium not found. Install Chrome, set ROD_BROWSER_BIN, or use --engine native")
		}
		return
	}
	result.Chrome.Found = true
	result.Chrome.Path = path

	if s.engine == man2pdf.EngineChrome && result.Env.Container && result.Env.NoSandbox != "1" {
		result.Warnings = append(result.Warnings,
			"Container detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// checkOutput verifies the output directory can receive PDFs.
func checkOutput(result *doctorResult, s *runSettings) {
	dir := s.outputDir
	if dir == "" {
		dir = "."
	}
	result.Output.Dir = dir

	info, err := os.Stat(dir)
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Output directory %s does not exist. It will be created", dir))
		return
	}
	if !info.IsDir() {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Output path %s is not a directory", dir))
		return
	}
	result.Output.Exists = true

	f, err := os.CreateTemp(dir, ".man2pdf-doctor-*")
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Output directory %s is not writable", dir))
		return
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	result.Output.Writable = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "man2pdf doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Tools")
	printTool(w, "Manual reader", r.Man, "ERROR")
	if r.Filter.Name != "" {
		printTool(w, "Filter", r.Filter, "WARN")
	} else {
		fmt.Fprintln(w, "  [OK] Filter: disabled (built-in stripping)")
	}
	switch {
	case r.Chrome.Found:
		printTool(w, "Chrome", r.Chrome, "ERROR")
	case r.Engine == string(man2pdf.EngineChrome):
		fmt.Fprintln(w, "  [ERROR] Chrome: not found")
	default:
		fmt.Fprintln(w, "  [OK] Chrome: not found (not needed for native engine)")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Output")
	switch {
	case r.Output.Writable:
		fmt.Fprintf(w, "  [OK] %s: writable\n", r.Output.Dir)
	case !r.Output.Exists:
		fmt.Fprintf(w, "  [WARN] %s: will be created\n", r.Output.Dir)
	default:
		fmt.Fprintf(w, "  [ERROR] %s: not writable\n", r.Output.Dir)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	fmt.Fprintf(w, "  [OK] Engine: %s, parallel pool size: %d (GOMAXPROCS %d)\n", r.Engine, r.Env.PoolSize, r.Env.MaxProcs)
	if r.Env.Container {
		fmt.Fprintln(w, "  [OK] Container: detected")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to convert")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

// printTool prints one tool line; level tags a missing tool.
func printTool(w io.Writer, label string, t toolInfo, level string) {
	if t.Found {
		fmt.Fprintf(w, "  [OK] %s: %s\n", label, t.Path)
		return
	}
	fmt.Fprintf(w, "  [%s] %s: %s not found\n", level, label, t.Name)
}
