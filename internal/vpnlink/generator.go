// Package vpnlink собирает клиентские ссылки подключения (vless/vmess/trojan)
// без обращения к панели: идентификатор клиента генерируется локально.
package vpnlink

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"vpnstore-bot/internal/stories/products"
)

const (
	serverPort = 443
	tlsSNI     = "example.com"
	wsHost     = "example.com"
)

// vmessPayload — JSON внутри vmess://-ссылки; все поля строковые,
// как их ожидают клиенты v2ray.
type vmessPayload struct {
	V    string `json:"v"`
	Ps   string `json:"ps"`
	Add  string `json:"add"`
	Port string `json:"port"`
	ID   string `json:"id"`
	Aid  string `json:"aid"`
	Net  string `json:"net"`
	Type string `json:"type"`
	Host string `json:"host"`
	Path string `json:"path"`
	TLS  string `json:"tls"`
	SNI  string `json:"sni"`
}

// Generate возвращает ссылку подключения и идентификатор клиента для
// заданного протокола. label попадает в имя подключения внутри клиента.
func Generate(configType products.ConfigType, label, server string) (configData, clientID string, err error) {
	clientID = uuid.NewString()

	switch configType {
	case products.ConfigTypeVless:
		configData = fmt.Sprintf(
			"vless://%s@%s:%d?encryption=none&security=tls&sni=%s&type=ws&host=%s&path=%%2Fvless#%s",
			clientID, server, serverPort, tlsSNI, wsHost, url.PathEscape(label),
		)

	case products.ConfigTypeVmess:
		payload, merr := json.Marshal(vmessPayload{
			V:    "2",
			Ps:   label,
			Add:  server,
			Port: fmt.Sprintf("%d", serverPort),
			ID:   clientID,
			Aid:  "0",
			Net:  "ws",
			Type: "none",
			Host: wsHost,
			Path: "/vmess",
			TLS:  "tls",
			SNI:  tlsSNI,
		})
		if merr != nil {
			return "", "", merr
		}
		configData = "vmess://" + base64.StdEncoding.EncodeToString(payload)

	case products.ConfigTypeTrojan:
		configData = fmt.Sprintf(
			"trojan://%s@%s:%d?security=tls&sni=%s&type=ws&host=%s&path=%%2Ftrojan#%s",
			clientID, server, serverPort, tlsSNI, wsHost, url.PathEscape(label),
		)

	default:
		return "", "", fmt.Errorf("unsupported config type: %s", configType)
	}

	return configData, clientID, nil
}
