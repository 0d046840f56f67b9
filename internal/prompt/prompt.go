// Package prompt assembles the generation prompts: per-language profiles and
// the user template are baked into the binary with go:embed, and system
// prompts are looked up by name.
package prompt

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"versegen/internal/bible"
)

//go:embed profiles/*.yaml
var embeddedProfiles embed.FS

//go:embed commentary.tmpl
var commentaryTmpl string

var userTemplate = template.Must(template.New("commentary").Parse(commentaryTmpl))

// ErrUnknownProfile is returned by Lookup for names with no embedded profile.
var ErrUnknownProfile = errors.New("unknown prompt profile")

// Profile carries everything language specific about a prompt and the
// stored commentary.
type Profile struct {
	Name      string         `yaml:"name"`
	Language  bible.Language `yaml:"language"`
	Heading   string         `yaml:"heading"`   // stored content starts with "# <Heading> - <ref>"
	Tail      string         `yaml:"tail"`      // last line of the prompt
	Directive string         `yaml:"directive"` // appended after a blank line when set
}

// Input is the reference data for one verse.
type Input struct {
	Key         bible.Key
	Verse       string
	Interlinear string
	Morphology  string
}

type templateData struct {
	Ref            string
	Verse          string
	SourceLanguage string
	Interlinear    string
	Morphology     string
	Tail           string
}

var profiles = mustLoadProfiles()

func mustLoadProfiles() map[string]*Profile {
	out, err := loadProfiles(embeddedProfiles)
	if err != nil {
		panic(err)
	}
	return out
}

func loadProfiles(fsys fs.FS) (map[string]*Profile, error) {
	files, err := fs.Glob(fsys, "profiles/*.yaml")
	if err != nil {
		return nil, err
	}
	out := make(map[string]*Profile, len(files))
	for _, f := range files {
		data, err := fs.ReadFile(fsys, f)
		if err != nil {
			return nil, fmt.Errorf("failed to read profile %s: %w", f, err)
		}
		var p Profile
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("failed to parse profile %s: %w", f, err)
		}
		if p.Name == "" {
			p.Name = strings.TrimSuffix(path.Base(f), ".yaml")
		}
		out[p.Name] = &p
	}
	return out, nil
}

// Lookup returns the embedded profile with the given name ("en", "zh").
func Lookup(name string) (*Profile, error) {
	p, ok := profiles[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}
	return p, nil
}

// Names lists the embedded profiles, sorted.
func Names() []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Ref formats the key as a citation in the profile's language.
func (p *Profile) Ref(key bible.Key) string {
	return bible.Format(key, p.Language)
}

// Build renders the user prompt for one verse.
func (p *Profile) Build(in Input) (string, error) {
	var buf bytes.Buffer
	err := userTemplate.Execute(&buf, templateData{
		Ref:            p.Ref(in.Key),
		Verse:          in.Verse,
		SourceLanguage: in.Key.SourceLanguage(),
		Interlinear:    in.Interlinear,
		Morphology:     in.Morphology,
		Tail:           p.Tail,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render prompt for %s: %w", in.Key, err)
	}
	out := strings.TrimRight(buf.String(), "\n")
	if p.Directive != "" {
		out += "\n\n" + p.Directive
	}
	return out, nil
}

// Finish tags verse references in generated content and prepends the heading.
func (p *Profile) Finish(key bible.Key, content string) string {
	return fmt.Sprintf("# %s - %s\n\n%s", p.Heading, p.Ref(key), bible.TagReferences(content, p.Language))
}
