package storage

import "testing"

func TestFields(t *testing.T) {
	type row struct {
		ID      int64  `db:"id"`
		Name    string `db:"name"`
		Skipped string
		Value   string `db:"value"`
	}

	got := fields(row{})
	want := "id,name,value"
	if got != want {
		t.Errorf("fields() = %q, want %q", got, want)
	}
}

func TestRowFieldsMatchScanOrder(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{
			name: "users",
			got:  userRowFields,
			want: "id,telegram_id,username,first_name,last_name,is_blocked,registration_date",
		},
		{
			name: "products",
			got:  productRowFields,
			want: "id,name,description,price,config_type,duration_days,is_active",
		},
		{
			name: "orders",
			got:  orderRowFields,
			want: "id,user_id,product_id,amount,status,created_at,paid_at,config_id",
		},
		{
			name: "vpn configs",
			got:  vpnConfigRowFields,
			want: "id,user_id,name,config_type,config_data,created_at,valid_until,is_active,x_ui_client_id",
		},
		{
			name: "settings",
			got:  settingRowFields,
			want: "id,key,value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("row fields = %q, want %q", tt.got, tt.want)
			}
		})
	}
}
