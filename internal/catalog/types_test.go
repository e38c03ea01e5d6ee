package catalog

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestProduct_MarshalKeepsNumericPrice(t *testing.T) {
	var p Product
	if err := json.Unmarshal([]byte(productJSON), &p); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if p.PriceLabel() != "$109.95" {
		t.Fatalf("PriceLabel = %q, want $109.95", p.PriceLabel())
	}

	out, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	body := string(out)
	if !strings.Contains(body, `"price":109.95`) {
		t.Fatalf("Marshal = %s, want numeric price", body)
	}
	if strings.Count(body, `"price"`) != 1 {
		t.Fatalf("Marshal = %s, want a single price field", body)
	}
	if !strings.Contains(body, `"rating":{"rate":`) || !strings.Contains(body, `"id":1`) {
		t.Fatalf("Marshal = %s, want remaining fields kept", body)
	}
}
