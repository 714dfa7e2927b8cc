// Package config loads the named inputs of a run from defaults, an optional
// JSONC file, GitHub Actions INPUT_ environment variables and CLI flags.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/tailscale/hujson"

	"github.com/ericfisherdev/stale-issues/internal/domain/model"
)

// Input names, shared by the config file, INPUT_ variables and flags.
const (
	InputGitHubToken     = "github-token"
	InputGitHubRepo      = "github-repo"
	InputStaleLabel      = "stale-label"
	InputDaysBeforeClose = "days-before-close"
	InputCloseMessage    = "close-message"
	InputDryRun          = "dry-run"
	InputAPIURL          = "api-url"
)

// FlagConfig names the flag pointing at an optional JSONC config file.
const FlagConfig = "config"

var inputNames = []string{
	InputGitHubToken,
	InputGitHubRepo,
	InputStaleLabel,
	InputDaysBeforeClose,
	InputCloseMessage,
	InputDryRun,
	InputAPIURL,
}

// Inputs holds the raw named inputs of a run. Values are trimmed but not
// validated; DaysBeforeClose and GitHubRepo are checked by the resolver.
type Inputs struct {
	GitHubToken     string
	GitHubRepo      string
	StaleLabel      string
	DaysBeforeClose string
	CloseMessage    string
	DryRun          bool
	APIURL          string
}

// RegisterFlags defines one flag per input plus --config on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(FlagConfig, "", "path to a JSONC file with input values")
	fs.String(InputGitHubToken, "", "GitHub token used for API calls")
	fs.String(InputGitHubRepo, "", `repository to scan, in "owner/repo" form`)
	fs.String(InputStaleLabel, "", "label that marks an issue as stale")
	fs.String(InputDaysBeforeClose, "", "days an issue must stay stale before it is closed")
	fs.String(InputCloseMessage, "", "comment posted when closing an issue")
	fs.Bool(InputDryRun, false, "report what would be closed without closing anything")
	fs.String(InputAPIURL, "", "GitHub REST API base URL")
}

// Load resolves inputs with the following precedence (highest wins):
//  1. Defaults, and GITHUB_TOKEN / GITHUB_REPOSITORY / GITHUB_API_URL
//  2. The JSONC file given by --config
//  3. INPUT_<NAME> environment variables (GitHub Actions)
//  4. Flags explicitly set on fs
//
// fs may be nil.
func Load(fs *pflag.FlagSet) (*Inputs, error) {
	values := map[string]string{
		InputStaleLabel: "stale",
		InputDryRun:     "false",
		InputAPIURL:     "https://api.github.com/",
	}
	for input, env := range map[string]string{
		InputGitHubToken: "GITHUB_TOKEN",
		InputGitHubRepo:  "GITHUB_REPOSITORY",
		InputAPIURL:      "GITHUB_API_URL",
	} {
		if v, ok := os.LookupEnv(env); ok && v != "" {
			values[input] = v
		}
	}

	if fs != nil {
		if path, _ := fs.GetString(FlagConfig); path != "" {
			fileValues, err := loadFile(path)
			if err != nil {
				return nil, err
			}
			for k, v := range fileValues {
				values[k] = v
			}
		}
	}

	for _, name := range inputNames {
		if v, ok := os.LookupEnv(envName(name)); ok {
			values[name] = v
		}
	}

	if fs != nil {
		fs.Visit(func(f *pflag.Flag) {
			if isInput(f.Name) {
				values[f.Name] = f.Value.String()
			}
		})
	}

	for k, v := range values {
		values[k] = strings.TrimSpace(v)
	}

	dryRun, err := parseBool(InputDryRun, values[InputDryRun])
	if err != nil {
		return nil, err
	}

	return &Inputs{
		GitHubToken:     values[InputGitHubToken],
		GitHubRepo:      values[InputGitHubRepo],
		StaleLabel:      values[InputStaleLabel],
		DaysBeforeClose: values[InputDaysBeforeClose],
		CloseMessage:    values[InputCloseMessage],
		DryRun:          dryRun,
		APIURL:          values[InputAPIURL],
	}, nil
}

// envName maps an input name to its GitHub Actions environment variable.
func envName(input string) string {
	return "INPUT_" + strings.ToUpper(strings.ReplaceAll(input, " ", "_"))
}

func isInput(name string) bool {
	for _, n := range inputNames {
		if n == name {
			return true
		}
	}
	return false
}

// parseBool accepts the YAML 1.2 core schema booleans, as GitHub Actions does.
func parseBool(name, v string) (bool, error) {
	switch v {
	case "true", "True", "TRUE":
		return true, nil
	case "false", "False", "FALSE":
		return false, nil
	}
	return false, fmt.Errorf("%w: %q must be one of true|True|TRUE|false|False|FALSE, got %q", model.ErrInvalidInput, name, v)
}

// loadFile reads a JSONC object mapping input names to scalar values.
func loadFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("%w: config file %s is not valid JSONC: %w", model.ErrInvalidInput, path, err)
	}

	var raw map[string]any
	dec := json.NewDecoder(bytes.NewReader(standardized))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: config file %s: %w", model.ErrInvalidInput, path, err)
	}

	values := make(map[string]string, len(raw))
	for k, v := range raw {
		if !isInput(k) {
			return nil, fmt.Errorf("%w: config file %s: unknown input %q", model.ErrInvalidInput, path, k)
		}
		switch val := v.(type) {
		case string:
			values[k] = val
		case bool, json.Number:
			values[k] = fmt.Sprint(val)
		default:
			return nil, fmt.Errorf("%w: config file %s: input %q must be a string, number or boolean", model.ErrInvalidInput, path, k)
		}
	}
	return values, nil
}
