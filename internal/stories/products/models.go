package products

// ConfigType — закрытый набор протоколов, под которые продаются тарифы.
type ConfigType string

const (
	ConfigTypeVless  ConfigType = "vless"
	ConfigTypeVmess  ConfigType = "vmess"
	ConfigTypeTrojan ConfigType = "trojan"
)

func (t ConfigType) Valid() bool {
	switch t {
	case ConfigTypeVless, ConfigTypeVmess, ConfigTypeTrojan:
		return true
	}
	return false
}

type Product struct {
	ID           int64
	Name         string
	Description  *string
	Price        int64 // в копейках
	ConfigType   ConfigType
	DurationDays int
	IsActive     bool
}

type GetCriteria struct {
	ID *int64
}

type ListCriteria struct {
	IsActive *bool
	Limit    int
	Offset   int
}
