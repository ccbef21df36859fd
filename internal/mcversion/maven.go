package mcversion

import (
	"fmt"
	"path"
	"strings"
)

// MavenCoordinate is a parsed `group.id:artifact:version[:classifier][@ext]`
// library identifier, as used by the Library.name field of a manifest.
type MavenCoordinate struct {
	Group      string
	Artifact   string
	Version    string
	Classifier string // empty if absent
	Ext        string // defaults to "jar"
}

// ParseMavenCoordinate parses a coordinate string. It does not validate that
// Group/Artifact/Version are non-empty beyond requiring at least three
// colon-separated fields.
func ParseMavenCoordinate(s string) (MavenCoordinate, error) {
	ext := "jar"
	rest := s
	if i := strings.LastIndex(rest, "@"); i >= 0 {
		ext = rest[i+1:]
		rest = rest[:i]
	}

	parts := strings.Split(rest, ":")
	if len(parts) < 3 {
		return MavenCoordinate{}, fmt.Errorf("mcversion: invalid maven coordinate %q", s)
	}

	coord := MavenCoordinate{
		Group:    parts[0],
		Artifact: parts[1],
		Version:  parts[2],
		Ext:      ext,
	}
	if len(parts) >= 4 {
		coord.Classifier = parts[3]
	}
	return coord, nil
}

// Render reconstructs the coordinate string, omitting the default "jar"
// extension, so that Parse(Render(c)) == c.
func (c MavenCoordinate) Render() string {
	s := fmt.Sprintf("%s:%s:%s", c.Group, c.Artifact, c.Version)
	if c.Classifier != "" {
		s += ":" + c.Classifier
	}
	if c.Ext != "" && c.Ext != "jar" {
		s += "@" + c.Ext
	}
	return s
}

// Path produces the canonical on-disk path, relative to a libraries root:
// group/id/artifact/version/artifact-version[-classifier].ext
func (c MavenCoordinate) Path() string {
	ext := c.Ext
	if ext == "" {
		ext = "jar"
	}
	fileName := fmt.Sprintf("%s-%s", c.Artifact, c.Version)
	if c.Classifier != "" {
		fileName += "-" + c.Classifier
	}
	fileName += "." + ext

	groupParts := strings.Split(c.Group, ".")
	segs := append(append([]string{}, groupParts...), c.Artifact, c.Version, fileName)
	return path.Join(segs...)
}
