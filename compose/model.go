package compose

import (
	"fmt"
	"strings"

	"go.yaml.in/yaml/v4"
)

// Project is the parsed root of a docker-compose.yml file.
type Project struct {
	// Version is the (legacy, optional) compose file format version
	Version string `yaml:"version,omitempty"`
	// Services maps service names to their definitions
	Services map[string]*Service `yaml:"services"`
	// Volumes lists top-level named volumes; values may be nil for
	// the bare "db_data:" form
	Volumes map[string]*VolumeSpec `yaml:"volumes,omitempty"`
	// Networks lists top-level named networks
	Networks map[string]any `yaml:"networks,omitempty"`
}

// Service returns the named service, or nil if not defined.
func (p *Project) Service(name string) *Service {
	if p == nil {
		return nil
	}
	return p.Services[name]
}

// HasVolume returns true if the named top-level volume is declared.
func (p *Project) HasVolume(name string) bool {
	if p == nil {
		return false
	}
	_, ok := p.Volumes[name]
	return ok
}

// Service is a single compose service definition.
type Service struct {
	Image         string        `yaml:"image,omitempty"`
	Build         *BuildSpec    `yaml:"build,omitempty"`
	ContainerName string        `yaml:"container_name,omitempty"`
	Restart       string        `yaml:"restart,omitempty"`
	Ports         []PortMapping `yaml:"ports,omitempty"`
	Volumes       []VolumeMount `yaml:"volumes,omitempty"`
	Environment   EnvMap        `yaml:"environment,omitempty"`
	DependsOn     DependsOn     `yaml:"depends_on,omitempty"`
	Healthcheck   *Healthcheck  `yaml:"healthcheck,omitempty"`
}

// MountsTarget returns true if any of the service's volume mounts has the
// given container-side target path.
func (s *Service) MountsTarget(target string) bool {
	if s == nil {
		return false
	}
	for _, m := range s.Volumes {
		if m.Target == target {
			return true
		}
	}
	return false
}

// MountFor returns the volume mount with the given container-side target,
// or nil if none exists.
func (s *Service) MountFor(target string) *VolumeMount {
	if s == nil {
		return nil
	}
	for i := range s.Volumes {
		if s.Volumes[i].Target == target {
			return &s.Volumes[i]
		}
	}
	return nil
}

// HasPort returns true if any port mapping normalizes to the given
// "published:target" form.
func (s *Service) HasPort(mapping string) bool {
	if s == nil {
		return false
	}
	for _, p := range s.Ports {
		if p.String() == mapping {
			return true
		}
	}
	return false
}

// BuildSpec is a service build declaration in either short string syntax
// ("build: .") or long mapping syntax with a context and dockerfile.
type BuildSpec struct {
	Context    string `yaml:"context,omitempty"`
	Dockerfile string `yaml:"dockerfile,omitempty"`
	Target     string `yaml:"target,omitempty"`
}

// UnmarshalYAML decodes both the short string form and the long mapping form.
func (b *BuildSpec) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		b.Context = value.Value
		return nil
	case yaml.MappingNode:
		type plain BuildSpec
		var out plain
		if err := value.Decode(&out); err != nil {
			return fmt.Errorf("invalid build: %w", err)
		}
		*b = BuildSpec(out)
		return nil
	default:
		return fmt.Errorf("invalid build on line %d", value.Line)
	}
}

// PortMapping is a single service port in either short string syntax
// ("8000:80") or long mapping syntax.
type PortMapping struct {
	// Raw is the normalized "published:target" form
	Raw string
	// Published is the host-side port (may be empty for container-only ports)
	Published string
	// Target is the container-side port
	Target string
	// Protocol is "tcp" or "udp" when specified
	Protocol string
}

// String returns the normalized short form of the mapping.
func (p PortMapping) String() string { return p.Raw }

// UnmarshalYAML decodes both the short string form and the long mapping form.
func (p *PortMapping) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		p.Raw = value.Value
		parts := strings.Split(value.Value, ":")
		switch len(parts) {
		case 1:
			p.Target = parts[0]
		case 2:
			p.Published, p.Target = parts[0], parts[1]
		case 3:
			// host-ip:published:target
			p.Published, p.Target = parts[1], parts[2]
		default:
			return fmt.Errorf("invalid port mapping %q", value.Value)
		}
		if target, proto, ok := strings.Cut(p.Target, "/"); ok {
			p.Target, p.Protocol = target, proto
		}
		return nil
	case yaml.MappingNode:
		var long struct {
			Target    int    `yaml:"target"`
			Published string `yaml:"published"`
			Protocol  string `yaml:"protocol"`
		}
		if err := value.Decode(&long); err != nil {
			return fmt.Errorf("invalid long port mapping: %w", err)
		}
		p.Target = fmt.Sprintf("%d", long.Target)
		p.Published = long.Published
		p.Protocol = long.Protocol
		if p.Published != "" {
			p.Raw = p.Published + ":" + p.Target
		} else {
			p.Raw = p.Target
		}
		return nil
	default:
		return fmt.Errorf("invalid port mapping on line %d", value.Line)
	}
}

// VolumeMount is a single service volume in either short string syntax
// ("./src:/var/www/html:ro") or long mapping syntax.
type VolumeMount struct {
	// Raw is the original short-syntax string, or a reconstructed
	// "source:target" form for long-syntax mounts
	Raw string
	// Type is "bind", "volume", or "" when unspecified (short syntax)
	Type string
	// Source is the host path or named volume (empty for anonymous volumes)
	Source string
	// Target is the container-side mount path
	Target string
	// Mode holds short-syntax access modes such as "ro"
	Mode string
}

// String returns the short-syntax representation of the mount.
func (m VolumeMount) String() string { return m.Raw }

// IsNamed returns true if the mount source refers to a named volume rather
// than a host path.
func (m VolumeMount) IsNamed() bool {
	return m.Source != "" && !strings.HasPrefix(m.Source, ".") && !strings.HasPrefix(m.Source, "/")
}

// UnmarshalYAML decodes both the short string form and the long mapping form.
func (m *VolumeMount) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		m.Raw = value.Value
		parts := strings.Split(value.Value, ":")
		switch len(parts) {
		case 1:
			m.Target = parts[0]
		case 2:
			m.Source, m.Target = parts[0], parts[1]
		case 3:
			m.Source, m.Target, m.Mode = parts[0], parts[1], parts[2]
		default:
			return fmt.Errorf("invalid volume mount %q", value.Value)
		}
		return nil
	case yaml.MappingNode:
		var long struct {
			Type     string `yaml:"type"`
			Source   string `yaml:"source"`
			Target   string `yaml:"target"`
			ReadOnly bool   `yaml:"read_only"`
		}
		if err := value.Decode(&long); err != nil {
			return fmt.Errorf("invalid long volume mount: %w", err)
		}
		m.Type = long.Type
		m.Source = long.Source
		m.Target = long.Target
		if long.ReadOnly {
			m.Mode = "ro"
		}
		m.Raw = long.Source + ":" + long.Target
		return nil
	default:
		return fmt.Errorf("invalid volume mount on line %d", value.Line)
	}
}

// EnvMap is a service environment in either list ("K=V") or map form,
// normalized to a map.
type EnvMap map[string]string

// UnmarshalYAML decodes both the list form and the map form.
func (e *EnvMap) UnmarshalYAML(value *yaml.Node) error {
	out := make(map[string]string)
	switch value.Kind {
	case yaml.SequenceNode:
		var entries []string
		if err := value.Decode(&entries); err != nil {
			return fmt.Errorf("invalid environment list: %w", err)
		}
		for _, entry := range entries {
			key, val, _ := strings.Cut(entry, "=")
			out[key] = val
		}
	case yaml.MappingNode:
		var entries map[string]*string
		if err := value.Decode(&entries); err != nil {
			return fmt.Errorf("invalid environment map: %w", err)
		}
		for key, val := range entries {
			if val == nil {
				out[key] = ""
				continue
			}
			out[key] = *val
		}
	default:
		return fmt.Errorf("invalid environment on line %d", value.Line)
	}
	*e = out
	return nil
}

// DependsOn is a service dependency declaration. Compose accepts a short
// list form ("depends_on: [mariadb]") and a long map form with conditions.
// The model records which form was used so checks can require the long one.
type DependsOn struct {
	// Short is true when the list form was used
	Short bool
	// Services maps dependency names to their conditions. Short-form
	// dependencies get the implicit "service_started" condition.
	Services map[string]DependsOnCondition
}

// DependsOnCondition is the long-form dependency condition.
type DependsOnCondition struct {
	Condition string `yaml:"condition,omitempty"`
	Restart   bool   `yaml:"restart,omitempty"`
}

// Requires returns true if the named service is a declared dependency.
func (d DependsOn) Requires(name string) bool {
	_, ok := d.Services[name]
	return ok
}

// Condition returns the condition declared for the named dependency,
// or "" if the service is not a dependency.
func (d DependsOn) Condition(name string) string {
	return d.Services[name].Condition
}

// UnmarshalYAML decodes both the short list form and the long map form.
func (d *DependsOn) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var names []string
		if err := value.Decode(&names); err != nil {
			return fmt.Errorf("invalid depends_on list: %w", err)
		}
		d.Short = true
		d.Services = make(map[string]DependsOnCondition, len(names))
		for _, name := range names {
			d.Services[name] = DependsOnCondition{Condition: "service_started"}
		}
		return nil
	case yaml.MappingNode:
		var entries map[string]DependsOnCondition
		if err := value.Decode(&entries); err != nil {
			return fmt.Errorf("invalid depends_on map: %w", err)
		}
		d.Short = false
		d.Services = entries
		return nil
	default:
		return fmt.Errorf("invalid depends_on on line %d", value.Line)
	}
}

// Healthcheck is a service healthcheck definition.
type Healthcheck struct {
	Test        HealthcheckTest `yaml:"test,omitempty"`
	Interval    string          `yaml:"interval,omitempty"`
	Timeout     string          `yaml:"timeout,omitempty"`
	Retries     *int            `yaml:"retries,omitempty"`
	StartPeriod string          `yaml:"start_period,omitempty"`
	Disable     bool            `yaml:"disable,omitempty"`
}

// HealthcheckTest is a healthcheck command in either shell string form or
// exec list form (["CMD", ...]).
type HealthcheckTest []string

// String returns the test command joined by single spaces.
func (t HealthcheckTest) String() string {
	return strings.Join(t, " ")
}

// UnmarshalYAML decodes both the string form and the list form.
func (t *HealthcheckTest) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*t = HealthcheckTest{value.Value}
		return nil
	case yaml.SequenceNode:
		var parts []string
		if err := value.Decode(&parts); err != nil {
			return fmt.Errorf("invalid healthcheck test list: %w", err)
		}
		*t = HealthcheckTest(parts)
		return nil
	default:
		return fmt.Errorf("invalid healthcheck test on line %d", value.Line)
	}
}

// VolumeSpec is a top-level named volume definition.
type VolumeSpec struct {
	Driver   string `yaml:"driver,omitempty"`
	External bool   `yaml:"external,omitempty"`
	Name     string `yaml:"name,omitempty"`
}
