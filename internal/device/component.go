package device

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when the device reports that a package, activity
// or intent resolution does not exist.
var ErrNotFound = errors.New("not found")

// Component identifies an activity by package and fully qualified class.
type Component struct {
	Package string `json:"package" yaml:"package"`
	Class   string `json:"class" yaml:"class"`
}

// String returns the flattened "package/class" form used by am start.
func (c Component) String() string {
	if c.IsZero() {
		return ""
	}
	return c.Package + "/" + c.Class
}

// ShortString returns the flattened form with the package prefix of the
// class abbreviated to ".", as printed by dumpsys.
func (c Component) ShortString() string {
	if strings.HasPrefix(c.Class, c.Package+".") {
		return c.Package + "/" + strings.TrimPrefix(c.Class, c.Package)
	}
	return c.String()
}

// IsZero reports whether the component is unset.
func (c Component) IsZero() bool {
	return c.Package == "" && c.Class == ""
}

// ParseComponent parses "package/class". A class beginning with "." is
// relative to the package.
func ParseComponent(s string) (Component, error) {
	pkg, class, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok || pkg == "" || class == "" {
		return Component{}, fmt.Errorf("invalid component %q: expected package/class", s)
	}
	if strings.HasPrefix(class, ".") {
		class = pkg + class
	}
	return Component{Package: pkg, Class: class}, nil
}

// Activity is an activity declared by a package.
type Activity struct {
	Name     string `json:"name"` // Fully qualified class name
	Exported bool   `json:"exported"`
	Enabled  bool   `json:"enabled"`
}

// ActivityInfo describes a single resolved activity.
type ActivityInfo struct {
	Enabled bool `json:"enabled"`
}

// Info describes the attached device.
type Info struct {
	Serial  string `json:"serial,omitempty" yaml:"serial,omitempty"`
	State   string `json:"state" yaml:"state"`
	Model   string `json:"model,omitempty" yaml:"model,omitempty"`
	Release string `json:"release,omitempty" yaml:"release,omitempty"`
	SDK     string `json:"sdk,omitempty" yaml:"sdk,omitempty"`
}
