package app

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/blues/jsonata-go"
	"gopkg.in/yaml.v3"
)

// SupportedBindingsVersions is the range of bindings file versions this CLI reads.
const SupportedBindingsVersions = "^1.0.0"

// Bindings is the parsed form of .neat/bindings.yaml.
type Bindings struct {
	Version  string    `yaml:"version" json:"version"`
	Bindings []Binding `yaml:"bindings" json:"bindings"`
}

// Binding associates a name (and optionally a key chord) with a script.
type Binding struct {
	Name        string            `yaml:"name" json:"name"`
	Key         string            `yaml:"key,omitempty" json:"key,omitempty"`
	Description string            `yaml:"description,omitempty" json:"description,omitempty"`
	Script      string            `yaml:"script" json:"script"`
	Args        []string          `yaml:"args,omitempty" json:"args,omitempty"`
	Protocol    string            `yaml:"protocol,omitempty" json:"protocol,omitempty"`
	When        string            `yaml:"when,omitempty" json:"when,omitempty"`
	Env         map[string]string `yaml:"env,omitempty" json:"env,omitempty"`
	SecretEnv   map[string]string `yaml:"secretEnv,omitempty" json:"secretEnv,omitempty"`
}

// LoadBindings reads a bindings file. A missing file yields an empty set.
func LoadBindings(path string) (*Bindings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Bindings{}, nil
		}
		return nil, fmt.Errorf("reading bindings %s: %w", path, err)
	}
	b, err := ParseBindings(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// ParseBindings decodes and validates bindings YAML.
func ParseBindings(data []byte) (*Bindings, error) {
	var b Bindings
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parsing bindings: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// Validate checks the version range, name uniqueness and per-binding fields.
func (b *Bindings) Validate() error {
	if err := checkBindingsVersion(b.Version); err != nil {
		return err
	}
	seen := make(map[string]bool, len(b.Bindings))
	var errs []error
	for i, bd := range b.Bindings {
		switch {
		case strings.TrimSpace(bd.Name) == "":
			errs = append(errs, fmt.Errorf("bindings[%d]: name is required", i))
		case seen[bd.Name]:
			errs = append(errs, fmt.Errorf("bindings[%d]: duplicate name %q", i, bd.Name))
		}
		seen[bd.Name] = true
		if strings.TrimSpace(bd.Script) == "" {
			errs = append(errs, fmt.Errorf("binding %q: script is required", bd.Name))
		}
		switch bd.Protocol {
		case "", ProtocolLines, ProtocolBatch:
		default:
			errs = append(errs, fmt.Errorf("binding %q: unknown protocol %q (valid: %s, %s)", bd.Name, bd.Protocol, ProtocolLines, ProtocolBatch))
		}
		if bd.When != "" {
			if _, err := jsonata.Compile(bd.When); err != nil {
				errs = append(errs, fmt.Errorf("binding %q: compile when: %w", bd.Name, err))
			}
		}
	}
	return errors.Join(errs...)
}

func checkBindingsVersion(v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("bindings version is required")
	}
	ver, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("invalid bindings version %q: %w", v, err)
	}
	c, err := semver.NewConstraint(SupportedBindingsVersions)
	if err != nil {
		return err
	}
	if !c.Check(ver) {
		return fmt.Errorf("bindings version %s is not supported (want %s)", v, SupportedBindingsVersions)
	}
	return nil
}

// Find returns the binding with the given name.
func (b *Bindings) Find(name string) (Binding, bool) {
	for _, bd := range b.Bindings {
		if bd.Name == name {
			return bd, true
		}
	}
	return Binding{}, false
}

// EffectiveProtocol returns the binding's protocol, defaulting to lines.
func (bd Binding) EffectiveProtocol() string {
	if bd.Protocol == "" {
		return ProtocolLines
	}
	return bd.Protocol
}

// Applies evaluates the binding's when clause against the execution context.
// A binding without a when clause always applies. An undefined result is false.
func (bd Binding) Applies(execCtx any) (bool, error) {
	if strings.TrimSpace(bd.When) == "" {
		return true, nil
	}
	expr, err := jsonata.Compile(bd.When)
	if err != nil {
		return false, fmt.Errorf("compile when: %w", err)
	}
	input, err := NormalizeJSON(execCtx)
	if err != nil {
		return false, fmt.Errorf("normalize context: %w", err)
	}
	result, err := expr.Eval(input)
	if err != nil {
		if errors.Is(err, jsonata.ErrUndefined) {
			return false, nil
		}
		return false, fmt.Errorf("evaluate when: %w", err)
	}
	return truthy(result), nil
}

// truthy follows JSONata's boolean casting rules.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case int:
		return t != 0
	case []any:
		for _, item := range t {
			if truthy(item) {
				return true
			}
		}
		return false
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}

// Environment returns KEY=VALUE pairs for the binding: plain env first,
// then secretEnv entries resolved from the keychain. Output is sorted by key.
func (bd Binding) Environment() ([]string, error) {
	vals := make(map[string]string, len(bd.Env)+len(bd.SecretEnv))
	for k, v := range bd.Env {
		vals[k] = v
	}
	for k, entry := range bd.SecretEnv {
		secret, err := loadSecretFunc(entry)
		if err != nil {
			return nil, fmt.Errorf("binding %q: %s: %w", bd.Name, k, err)
		}
		vals[k] = secret
	}

	keys := make([]string, 0, len(vals))
	for k := range vals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	env := make([]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, k+"="+vals[k])
	}
	return env, nil
}

// Render lists bindings for text output.
func (b *Bindings) Render() string {
	s := Styles
	if len(b.Bindings) == 0 {
		return s.Dim.Render("no bindings defined")
	}
	var sb strings.Builder
	for i, bd := range b.Bindings {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(s.Bullet.Render("•"))
		sb.WriteString(" ")
		sb.WriteString(s.Header.Render(bd.Name))
		if bd.Key != "" {
			sb.WriteString("  ")
			sb.WriteString(s.Key.Render(bd.Key))
		}
		sb.WriteString("\n    ")
		sb.WriteString(s.Dim.Render(strings.Join(append([]string{bd.Script}, bd.Args...), " ")))
		if bd.Description != "" {
			sb.WriteString("\n    ")
			sb.WriteString(bd.Description)
		}
	}
	return sb.String()
}
