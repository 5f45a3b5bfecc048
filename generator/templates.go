package generator

import (
	"errors"
	"sort"
)

var ErrUnknownTemplate = errors.New("invalid template_id")

// Template is a fixed section outline an article must follow
type Template struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Structure []string `json:"structure"`
}

var templates = map[string]Template{
	"how-to-guide": {
		ID:        "how-to-guide",
		Name:      "How‑To Guide",
		Structure: []string{"Introduction", "Step 1", "Step 2", "Step 3", "Conclusion"},
	},
	"product-description": {
		ID:        "product-description",
		Name:      "Product Description",
		Structure: []string{"Headline", "Features", "Benefits", "Specifications", "CTA"},
	},
}

func GetTemplate(id string) (Template, error) {
	t, ok := templates[id]
	if !ok {
		return Template{}, ErrUnknownTemplate
	}
	return t, nil
}

// Templates lists the available templates ordered by id
func Templates() []Template {
	list := make([]Template, 0, len(templates))
	for _, t := range templates {
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}
