package normalize

import "testing"

func TestTenableOSAndCPEParsing(t *testing.T) {
	raw := decode(t, `{
		"id": 7,
		"host_name": "host-d",
		"operating_systems": ["Kernel 5.4 on Debian 11"],
		"installed_software": ["cpe:/a:nginx:nginx:1.18:x64"],
		"display_ipv4_address": "203.0.113.1",
		"ipv4_addresses": ["203.0.113.1", "10.0.0.9"],
		"mac_addresses": ["aa:bb:cc:dd:ee:ff"]
	}`)
	h := Tenable(raw)
	if h.OSName == nil || *h.OSName != "Debian 11" {
		t.Fatalf("got os name %v", h.OSName)
	}
	if h.OSPlatform == nil || *h.OSPlatform != "Unknown" {
		t.Fatalf("got platform %v", h.OSPlatform)
	}
	if h.KernelVersion == nil || *h.KernelVersion != "5.4" {
		t.Fatalf("got kernel %v", h.KernelVersion)
	}
	if len(h.InstalledSoftware) != 1 || h.InstalledSoftware[0].Product != "nginx" {
		t.Fatalf("got software %+v", h.InstalledSoftware)
	}
	if h.PrivateIP == nil || *h.PrivateIP != "10.0.0.9" {
		t.Fatalf("got private ip %v", h.PrivateIP)
	}
	iface := h.NetworkInterfaces[0]
	if iface.PrivateIPv4 == nil || *iface.PrivateIPv4 != "10.0.0.9" {
		t.Fatalf("got interface private ip %v", iface.PrivateIPv4)
	}
	if iface.PublicIPv4 == nil || *iface.PublicIPv4 != "203.0.113.1" {
		t.Fatalf("got interface public ip %v", iface.PublicIPv4)
	}
}

func TestTenableCloudContextAlwaysAWS(t *testing.T) {
	h := Tenable(decode(t, `{"id": 1, "operating_systems": ["Linux"]}`))
	if h.CloudContext == nil || *h.CloudContext.Provider != "AWS" {
		t.Fatalf("got %+v", h.CloudContext)
	}
}

func TestTenableMitigationLastDetectedNormalized(t *testing.T) {
	h := Tenable(decode(t, `{
		"id": 1,
		"operating_systems": ["Linux"],
		"mitigations": [{"id": "m1", "last_Detected": "2024-01-01"}]
	}`))
	if len(h.TenableSecurity.Mitigations) != 1 {
		t.Fatalf("expected 1 mitigation")
	}
	got := h.TenableSecurity.Mitigations[0].LastDetected
	if got == nil || *got != "2024-01-01" {
		t.Fatalf("got %v", got)
	}
}
