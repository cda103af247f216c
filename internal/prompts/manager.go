package prompts

import (
	"embed"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed templates/*.yaml
var templateFS embed.FS

const (
	Questions  = "questions"
	Evaluation = "evaluation"
	Feedback   = "feedback"
)

var placeholderRe = regexp.MustCompile(`\{\{\.(\w+)\}\}`)

type PromptTemplate struct {
	System string `yaml:"system"`
	Prompt string `yaml:"prompt"`
}

// PromptManager holds the embedded templates, keyed by file name.
type PromptManager struct {
	templates map[string]PromptTemplate
}

func NewPromptManager() (*PromptManager, error) {
	pm := &PromptManager{templates: make(map[string]PromptTemplate)}
	if err := pm.loadTemplates(); err != nil {
		return nil, fmt.Errorf("failed to load prompt templates: %w", err)
	}
	return pm, nil
}

// BuildPrompt fills every {{.Key}} placeholder of the named template. A
// placeholder without a value is an error so that a prompt is never sent
// half-rendered.
func (pm *PromptManager) BuildPrompt(name string, data map[string]string) (string, error) {
	tmpl, ok := pm.templates[name]
	if !ok {
		return "", fmt.Errorf("template not found: %s", name)
	}

	var missing []string
	body := placeholderRe.ReplaceAllStringFunc(tmpl.Prompt, func(m string) string {
		key := placeholderRe.FindStringSubmatch(m)[1]
		v, ok := data[key]
		if !ok {
			missing = append(missing, key)
			return m
		}
		return v
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("template %s: missing values for %s", name, strings.Join(missing, ", "))
	}

	if tmpl.System == "" {
		return body, nil
	}
	return tmpl.System + "\n\n" + body, nil
}

func (pm *PromptManager) Names() []string {
	names := make([]string, 0, len(pm.templates))
	for name := range pm.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (pm *PromptManager) loadTemplates() error {
	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return fmt.Errorf("failed to read templates directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		data, err := templateFS.ReadFile("templates/" + entry.Name())
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", entry.Name(), err)
		}

		var tmpl PromptTemplate
		if err := yaml.Unmarshal(data, &tmpl); err != nil {
			return fmt.Errorf("failed to parse template file %s: %w", entry.Name(), err)
		}
		if strings.TrimSpace(tmpl.Prompt) == "" {
			return fmt.Errorf("template file %s has no prompt", entry.Name())
		}
		pm.templates[strings.TrimSuffix(entry.Name(), ".yaml")] = tmpl
	}

	for _, required := range []string{Questions, Evaluation, Feedback} {
		if _, ok := pm.templates[required]; !ok {
			return fmt.Errorf("required template %s is missing", required)
		}
	}
	return nil
}
