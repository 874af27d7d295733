package normalize

import (
	"encoding/json"
	"testing"

	"github.com/Ap3pp3rs94/hostfusion/internal/docnode"
)

func decode(t *testing.T, s string) docnode.Node {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return docnode.Of(v)
}

func TestQualysNilOnEmptyRecord(t *testing.T) {
	if got := Qualys(docnode.Of(nil)); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
	if got := Qualys(decode(t, `{}`)); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

// S6: Qualys raw host with no networkInterface list normalizes to a
// canonical host with empty interfaces, null primary_mac, and no panic.
func TestQualysNullSafeWithoutNetworkInterfaces(t *testing.T) {
	raw := decode(t, `{"id": 1, "name": "host-a"}`)
	h := Qualys(raw)
	if h == nil {
		t.Fatalf("expected non-nil host")
	}
	if h.PrimaryMACAddress != nil {
		t.Fatalf("expected nil primary mac, got %v", *h.PrimaryMACAddress)
	}
	if len(h.NetworkInterfaces) != 0 {
		t.Fatalf("expected no interfaces, got %d", len(h.NetworkInterfaces))
	}
}

func TestQualysNetworkInterfaceGrouping(t *testing.T) {
	raw := decode(t, `{
		"id": 42,
		"name": "host-b",
		"networkInterface": {"list": [
			{"HostAssetInterface": {"macAddress": "aa:bb:cc:dd:ee:ff", "address": "10.0.0.5", "gatewayAddress": "10.0.0.1"}},
			{"HostAssetInterface": {"macAddress": "aa:bb:cc:dd:ee:ff", "address": "2001:db8::1"}},
			{"HostAssetInterface": {"address": "203.0.113.9"}}
		]}
	}`)
	h := Qualys(raw)
	if h.PrimaryMACAddress == nil || *h.PrimaryMACAddress != "aa:bb:cc:dd:ee:ff" {
		t.Fatalf("got primary mac %v", h.PrimaryMACAddress)
	}
	if len(h.NetworkInterfaces) != 1 {
		t.Fatalf("expected 1 grouped interface, got %d", len(h.NetworkInterfaces))
	}
	iface := h.NetworkInterfaces[0]
	if iface.PrivateIPv4 == nil || *iface.PrivateIPv4 != "10.0.0.5" {
		t.Fatalf("got private ip %v", iface.PrivateIPv4)
	}
	if iface.IPv6 == nil || *iface.IPv6 != "2001:db8::1" {
		t.Fatalf("got ipv6 %v", iface.IPv6)
	}
	// standalone public IP (203.0.113.9) should backfill the primary MAC's
	// group since it has no public IPv4 yet.
	if iface.PublicIPv4 == nil || *iface.PublicIPv4 != "203.0.113.9" {
		t.Fatalf("got public ip %v", iface.PublicIPv4)
	}
	if h.DefaultGateway == nil || *h.DefaultGateway != "10.0.0.1" {
		t.Fatalf("got default gateway %v", h.DefaultGateway)
	}
}

func TestQualysSoftwareSkipsUnnamedEntries(t *testing.T) {
	raw := decode(t, `{
		"id": 1,
		"software": {"list": [
			{"HostAssetSoftware": {"name": "nginx", "version": "1.18"}},
			{"HostAssetSoftware": {"version": "2.0"}}
		]}
	}`)
	h := Qualys(raw)
	if len(h.InstalledSoftware) != 1 {
		t.Fatalf("expected 1 software entry, got %d", len(h.InstalledSoftware))
	}
	if h.InstalledSoftware[0].Product != "nginx" {
		t.Fatalf("got product %q", h.InstalledSoftware[0].Product)
	}
}
