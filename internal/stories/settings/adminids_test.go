package settings

import "testing"

func TestParseAdminIDs(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    AdminIDs
		wantErr bool
	}{
		{name: "single id", value: "123", want: AdminIDs{123}},
		{name: "several ids with spaces", value: "123, 456 ,789", want: AdminIDs{123, 456, 789}},
		{name: "empty value", value: "", want: nil},
		{name: "trailing comma", value: "123,", want: AdminIDs{123}},
		{name: "non numeric element", value: "123,abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAdminIDs(tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestAdminIDsEnsureContains(t *testing.T) {
	ids := AdminIDs{123}

	// Редактор не в списке — дописывается в конец.
	withEditor := ids.EnsureContains(456)
	if withEditor.String() != "123,456" {
		t.Errorf("got %q, want editor appended", withEditor.String())
	}

	// Редактор уже в списке — список не меняется.
	same := withEditor.EnsureContains(123)
	if same.String() != "123,456" {
		t.Errorf("got %q, want unchanged list", same.String())
	}
}

func TestAdminIDsContains(t *testing.T) {
	ids := AdminIDs{123, 456}
	if !ids.Contains(456) {
		t.Error("456 must be found")
	}
	if ids.Contains(789) {
		t.Error("789 must not be found")
	}
}
