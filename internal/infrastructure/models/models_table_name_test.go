package models

import "testing"

type tabler interface{ TableName() string }

func TestTableNames(t *testing.T) {
	want := []string{
		"user", "user_info", "user_certification", "verification_code", "verification_code_throttle",
		"address_book", "service_category", "service_provider_info", "certification", "service",
		"order", "payment", "after_sales", "review",
	}
	all := All()
	if len(all) != len(want) {
		t.Fatalf("unexpected model count: %d", len(all))
	}
	for i, m := range all {
		if got := m.(tabler).TableName(); got != want[i] {
			t.Fatalf("unexpected table name at %d: %s", i, got)
		}
	}
}
