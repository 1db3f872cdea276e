package fluid

import (
	"fmt"
	"slices"
)

// Template is a minimal Interpolable: a fmt format string with one float verb
// per component.
type Template struct {
	format     string
	components []float64
}

func NewTemplate(format string, components ...float64) *Template {
	return &Template{format: format, components: slices.Clone(components)}
}

func (t *Template) Components() []float64 {
	return slices.Clone(t.components)
}

func (t *Template) Render(components []float64) string {
	args := make([]any, len(components))
	for i, c := range components {
		args[i] = c
	}
	return fmt.Sprintf(t.format, args...)
}
