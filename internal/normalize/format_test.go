package normalize

import "testing"

func TestNormalizeMAC(t *testing.T) {
	if got := NormalizeMAC("aa-bb-cc-dd-ee-ff"); got != "aa:bb:cc:dd:ee:ff" {
		t.Fatalf("got %q", got)
	}
	if got := NormalizeMAC(""); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestIsPrivateIPv4(t *testing.T) {
	for _, ip := range []string{"10.0.0.1", "172.16.5.5", "192.168.1.1"} {
		if !IsPrivateIPv4(ip) {
			t.Fatalf("%q should be private", ip)
		}
	}
	if IsPrivateIPv4("8.8.8.8") {
		t.Fatalf("public IP classified private")
	}
}

func TestParseOSString(t *testing.T) {
	osName, platform, kernel := ParseOSString("Kernel 5.10 on Ubuntu 20.04")
	if osName != "Ubuntu 20.04" || platform != "Unknown" || kernel == nil || *kernel != "5.10" {
		t.Fatalf("got osName=%q platform=%q kernel=%v", osName, platform, kernel)
	}

	osName, platform, kernel = ParseOSString("Windows Server 2019")
	if osName != "Windows Server 2019" || platform != "Windows" || kernel != nil {
		t.Fatalf("got osName=%q platform=%q kernel=%v", osName, platform, kernel)
	}
}

func TestParseCPE(t *testing.T) {
	vendor, product, version, ok := ParseCPE("cpe:/a:nginx:nginx:1.18:extra")
	if !ok || vendor != "nginx" || product != "nginx" || version != "1.18" {
		t.Fatalf("got vendor=%q product=%q version=%q ok=%v", vendor, product, version, ok)
	}
	if _, _, _, ok := ParseCPE("cpe:/a:short"); ok {
		t.Fatalf("expected ok=false for short CPE string")
	}
}
