package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestIDKeepsWireShape(t *testing.T) {
	cases := map[string]string{
		`42`:    `42`,
		`"p1"`:  `"p1"`,
		`" 7 "`: `"7"`,
		`null`:  `null`,
		`1.5e3`: `1.5e3`,
	}
	for in, want := range cases {
		var id ID
		if err := json.Unmarshal([]byte(in), &id); err != nil {
			t.Fatalf("unmarshal %s: %v", in, err)
		}
		out, err := json.Marshal(id)
		if err != nil {
			t.Fatalf("marshal %s: %v", in, err)
		}
		if string(out) != want {
			t.Errorf("%s re-encoded as %s, want %s", in, out, want)
		}
	}

	var id ID
	if err := json.Unmarshal([]byte(`true`), &id); err == nil {
		t.Fatal("boolean accepted as identifier")
	}
}

func TestDateLayouts(t *testing.T) {
	for _, raw := range []string{
		`"2026-10-20"`,
		`"2026-10-20T08:30:00"`,
		`"2026-10-20T08:30:00.123"`,
		`"2026-10-20T08:30:00Z"`,
		`"2026-10-20 08:30:00"`,
	} {
		var d Date
		if err := json.Unmarshal([]byte(raw), &d); err != nil {
			t.Fatalf("unmarshal %s: %v", raw, err)
		}
		if d.Year() != 2026 || d.Month() != time.October || d.Day() != 20 {
			t.Errorf("%s parsed as %v", raw, d.Time)
		}
	}

	var d Date
	if err := json.Unmarshal([]byte(`""`), &d); err != nil || !d.IsZero() {
		t.Fatalf("empty date = %v, %v", d.Time, err)
	}
	if err := json.Unmarshal([]byte(`"20/10/2026"`), &d); err == nil {
		t.Fatal("unknown layout accepted")
	}
}

func TestPlanCatalogOrderAndFind(t *testing.T) {
	body := `{
		"Unlimited": [{"id": 3, "name": "Max", "amount": 999, "validityDays": 84}],
		"Data": [],
		"Popular": [{"id": "p1", "name": "Basic", "amount": 199, "validityDays": 28}, {"name": "Promo"}]
	}`
	var catalog PlanCatalog
	if err := json.Unmarshal([]byte(body), &catalog); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	var names []string
	for _, c := range catalog.Categories {
		names = append(names, c.Name)
	}
	if len(names) != 3 || names[0] != "Unlimited" || names[1] != "Data" || names[2] != "Popular" {
		t.Fatalf("category order = %v", names)
	}

	plan, ok := catalog.Find("3")
	if !ok || plan.Name != "Max" || plan.Category != "Unlimited" {
		t.Fatalf("Find(3) = %+v, %v", plan, ok)
	}
	if _, ok := catalog.Find(""); ok {
		t.Fatal("empty id matched a plan")
	}
	promo := catalog.Categories[2].Plans[1]
	if promo.Selectable() {
		t.Fatal("plan without id is selectable")
	}

	var empty PlanCatalog
	if err := json.Unmarshal([]byte(`null`), &empty); err != nil || !empty.Empty() {
		t.Fatalf("null catalog = %+v, %v", empty, err)
	}
	if err := json.Unmarshal([]byte(`[]`), &empty); err == nil {
		t.Fatal("array accepted as catalog")
	}
}

func TestDraftExpired(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	d := CheckoutDraft{ExpiresAt: now}
	if !d.Expired(now) || d.Expired(now.Add(-time.Second)) {
		t.Fatal("expiry boundary wrong")
	}
	if (CheckoutDraft{}).Expired(now) {
		t.Fatal("draft without expiry reported expired")
	}
}
