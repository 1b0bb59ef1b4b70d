package vpnlink

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"

	"vpnstore-bot/internal/stories/products"
)

func TestGenerateVless(t *testing.T) {
	link, clientID, err := Generate(products.ConfigTypeVless, "Месяц (VLESS)", "10.0.0.1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := uuid.Parse(clientID); err != nil {
		t.Fatalf("client id is not a uuid: %v", err)
	}
	if !strings.HasPrefix(link, "vless://"+clientID+"@10.0.0.1:443?") {
		t.Errorf("unexpected link prefix: %s", link)
	}
	for _, part := range []string{"encryption=none", "security=tls", "sni=example.com", "type=ws", "path=%2Fvless"} {
		if !strings.Contains(link, part) {
			t.Errorf("link misses %q: %s", part, link)
		}
	}
	if !strings.Contains(link, "#") {
		t.Errorf("link misses label fragment: %s", link)
	}
}

func TestGenerateVmess(t *testing.T) {
	link, clientID, err := Generate(products.ConfigTypeVmess, "Месяц", "10.0.0.1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.HasPrefix(link, "vmess://") {
		t.Fatalf("unexpected scheme: %s", link)
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(link, "vmess://"))
	if err != nil {
		t.Fatalf("payload is not base64: %v", err)
	}
	var payload map[string]string
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("payload is not json: %v", err)
	}
	if payload["id"] != clientID {
		t.Errorf("payload id = %s, want %s", payload["id"], clientID)
	}
	if payload["add"] != "10.0.0.1" || payload["port"] != "443" {
		t.Errorf("payload address = %s:%s, want 10.0.0.1:443", payload["add"], payload["port"])
	}
	if payload["ps"] != "Месяц" {
		t.Errorf("payload ps = %s, want label", payload["ps"])
	}
	if payload["net"] != "ws" || payload["tls"] != "tls" {
		t.Errorf("payload transport = %s/%s, want ws/tls", payload["net"], payload["tls"])
	}
}

func TestGenerateTrojan(t *testing.T) {
	link, clientID, err := Generate(products.ConfigTypeTrojan, "Год", "10.0.0.1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.HasPrefix(link, "trojan://"+clientID+"@10.0.0.1:443?") {
		t.Errorf("unexpected link prefix: %s", link)
	}
	if !strings.Contains(link, "path=%2Ftrojan") {
		t.Errorf("link misses trojan path: %s", link)
	}
}

func TestGenerateUnsupportedType(t *testing.T) {
	if _, _, err := Generate(products.ConfigType("wireguard"), "x", "10.0.0.1"); err == nil {
		t.Fatal("unsupported config type must fail")
	}
}

func TestGenerateUniqueClientIDs(t *testing.T) {
	_, first, _ := Generate(products.ConfigTypeVless, "a", "10.0.0.1")
	_, second, _ := Generate(products.ConfigTypeVless, "a", "10.0.0.1")
	if first == second {
		t.Error("client ids must be unique per generation")
	}
}
