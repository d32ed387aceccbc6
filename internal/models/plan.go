package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Plan is a purchasable recharge package as served by the backend.
type Plan struct {
	ID           ID      `json:"id"`
	Name         string  `json:"name"`
	Amount       float64 `json:"amount"`
	ValidityDays int     `json:"validityDays"`
	Description  string  `json:"description"`
	Category     string  `json:"category,omitempty"`
}

// Selectable reports whether the plan can be chosen. Plans without an
// identifier are still listed but cannot be purchased.
func (p Plan) Selectable() bool {
	return !p.ID.IsZero()
}

// PlanCategory is one named group of plans in backend order.
type PlanCategory struct {
	Name  string
	Plans []Plan
}

// PlanCatalog is the category → plans mapping returned by the backend,
// keeping the category order of the response body.
type PlanCatalog struct {
	Categories []PlanCategory
}

// Empty reports whether the catalog has no categories at all.
func (c PlanCatalog) Empty() bool {
	return len(c.Categories) == 0
}

// Find returns the plan with the given identifier.
func (c PlanCatalog) Find(id string) (Plan, bool) {
	if id == "" {
		return Plan{}, false
	}
	for _, category := range c.Categories {
		for _, plan := range category.Plans {
			if plan.ID.String() == id {
				if plan.Category == "" {
					plan.Category = category.Name
				}
				return plan, true
			}
		}
	}
	return Plan{}, false
}

// UnmarshalJSON decodes a JSON object of category arrays without losing
// key order.
func (c *PlanCatalog) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decode plan catalog: %w", err)
	}
	if tok == nil {
		*c = PlanCatalog{}
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("decode plan catalog: expected object of categories")
	}

	var out PlanCatalog
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decode plan catalog: %w", err)
		}
		name, _ := keyTok.(string)
		var plans []Plan
		if err := dec.Decode(&plans); err != nil {
			return fmt.Errorf("decode plan category %q: %w", name, err)
		}
		for i := range plans {
			if plans[i].Category == "" {
				plans[i].Category = name
			}
		}
		out.Categories = append(out.Categories, PlanCategory{Name: name, Plans: plans})
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("decode plan catalog: %w", err)
	}
	*c = out
	return nil
}
