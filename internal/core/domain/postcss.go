package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"

	"gopkg.in/yaml.v3"
)

// CSS plugin identifiers understood by the front-end build.
const (
	PluginTailwind        = "tailwindcss"
	PluginTailwindNesting = "tailwindcss/nesting"
	PluginAutoprefixer    = "autoprefixer"
	PluginImport          = "postcss-import"
	PluginPresetEnv       = "postcss-preset-env"

	// PluginMinifier is appended for production builds only.
	PluginMinifier = "cssnano"
)

// Node environment values.
const (
	NodeEnvProduction  = "production"
	NodeEnvDevelopment = "development"
)

// Plugin is one step of the CSS pipeline.
type Plugin struct {
	Name    string         `json:"name" yaml:"name"`
	Options map[string]any `json:"options,omitempty" yaml:"options,omitempty"`
}

// Pipeline is the ordered list of CSS plugins handed to the build tool.
//
// It marshals as an ordered object keyed by plugin name, the shape the
// build tool reads:
//
//	{"plugins":{"tailwindcss":{},"autoprefixer":{}}}
type Pipeline struct {
	Plugins []Plugin
}

// DefaultPlugins returns the base pipeline, without the minifier.
func DefaultPlugins() []Plugin {
	return []Plugin{
		{Name: PluginTailwind},
		{Name: PluginTailwindNesting},
		{Name: PluginAutoprefixer},
		{Name: PluginImport},
		{
			Name: PluginPresetEnv,
			Options: map[string]any{
				"features": map[string]any{"nesting-rules": false},
			},
		},
	}
}

// IsProduction reports whether nodeEnv selects a production build. Only the
// exact value "production" does.
func IsProduction(nodeEnv string) bool {
	return nodeEnv == NodeEnvProduction
}

// ValidatePlugins checks a base plugin list: names must be non-empty and
// unique, and the minifier must not be listed.
func ValidatePlugins(base []Plugin) error {
	seen := make(map[string]bool, len(base))
	for i, p := range base {
		switch {
		case p.Name == "":
			return ErrPluginNameEmpty.WithDetails(fmt.Sprintf("index %d", i))
		case p.Name == PluginMinifier:
			return ErrMinifierManaged.WithDetails(p.Name)
		case seen[p.Name]:
			return ErrPluginDuplicate.WithDetails(p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

// BuildPipeline returns base, in order, with the minifier appended when
// nodeEnv is production. base is not modified.
func BuildPipeline(base []Plugin, nodeEnv string) (Pipeline, error) {
	if err := ValidatePlugins(base); err != nil {
		return Pipeline{}, err
	}

	plugins := make([]Plugin, 0, len(base)+1)
	for _, p := range base {
		plugins = append(plugins, Plugin{Name: p.Name, Options: maps.Clone(p.Options)})
	}
	if IsProduction(nodeEnv) {
		plugins = append(plugins, Plugin{Name: PluginMinifier})
	}
	return Pipeline{Plugins: plugins}, nil
}

// Names returns the plugin names in order.
func (p Pipeline) Names() []string {
	names := make([]string, len(p.Plugins))
	for i, pl := range p.Plugins {
		names[i] = pl.Name
	}
	return names
}

// Has reports whether the pipeline contains the named plugin.
func (p Pipeline) Has(name string) bool {
	for _, pl := range p.Plugins {
		if pl.Name == name {
			return true
		}
	}
	return false
}

func optionsOrEmpty(opts map[string]any) map[string]any {
	if opts == nil {
		return map[string]any{}
	}
	return opts
}

// MarshalJSON writes the plugins as an ordered object.
func (p Pipeline) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"plugins":{`)
	for i, pl := range p.Plugins {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(pl.Name)
		if err != nil {
			return nil, err
		}
		body, err := json.Marshal(optionsOrEmpty(pl.Options))
		if err != nil {
			return nil, fmt.Errorf("plugin %s options: %w", pl.Name, err)
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(body)
	}
	buf.WriteString(`}}`)
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the ordered object written by MarshalJSON, keeping
// plugin order. Unknown top-level keys are skipped.
func (p *Pipeline) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}

	var plugins []Plugin
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if tok != "plugins" {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return err
			}
			continue
		}

		if err := expectDelim(dec, '{'); err != nil {
			return err
		}
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return err
			}
			name, _ := tok.(string)
			var opts map[string]any
			if err := dec.Decode(&opts); err != nil {
				return fmt.Errorf("plugin %s options: %w", name, err)
			}
			if len(opts) == 0 {
				opts = nil
			}
			plugins = append(plugins, Plugin{Name: name, Options: opts})
		}
		if err := expectDelim(dec, '}'); err != nil {
			return err
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return err
	}

	p.Plugins = plugins
	return nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("pipeline: expected %q, got %v", want, tok)
	}
	return nil
}

// MarshalYAML writes the same ordered shape as MarshalJSON.
func (p Pipeline) MarshalYAML() (any, error) {
	plugins := &yaml.Node{Kind: yaml.MappingNode}
	for _, pl := range p.Plugins {
		val := &yaml.Node{}
		if err := val.Encode(optionsOrEmpty(pl.Options)); err != nil {
			return nil, fmt.Errorf("plugin %s options: %w", pl.Name, err)
		}
		plugins.Content = append(plugins.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: pl.Name},
			val,
		)
	}
	return &yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Tag: "!!str", Value: "plugins"},
			plugins,
		},
	}, nil
}
