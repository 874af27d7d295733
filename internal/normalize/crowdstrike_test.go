package normalize

import "testing"

func TestCrowdStrikeRewritesMACDashesToColons(t *testing.T) {
	raw := decode(t, `{
		"device_id": "abc123",
		"mac_address": "aa-bb-cc-dd-ee-ff",
		"local_ip": "10.1.2.3",
		"hostname": "host-c"
	}`)
	h := CrowdStrike(raw)
	if h.PrimaryMACAddress == nil || *h.PrimaryMACAddress != "aa:bb:cc:dd:ee:ff" {
		t.Fatalf("got %v", h.PrimaryMACAddress)
	}
	if len(h.NetworkInterfaces) != 1 || *h.NetworkInterfaces[0].MACAddress != "aa:bb:cc:dd:ee:ff" {
		t.Fatalf("interface not synthesized correctly: %+v", h.NetworkInterfaces)
	}
}

func TestCrowdStrikeCloudContextOnlyWhenServiceProviderSet(t *testing.T) {
	h := CrowdStrike(decode(t, `{"device_id": "1", "mac_address": "a-b"}`))
	if h.CloudContext != nil {
		t.Fatalf("expected nil cloud context without service_provider")
	}

	h2 := CrowdStrike(decode(t, `{"device_id": "1", "mac_address": "a-b", "service_provider": "AWS_EC2_V2"}`))
	if h2.CloudContext == nil || *h2.CloudContext.Provider != "AWS" {
		t.Fatalf("expected AWS_EC2_V2 normalized to AWS, got %+v", h2.CloudContext)
	}
}

func TestCrowdStrikePoliciesSkipNullIDs(t *testing.T) {
	h := CrowdStrike(decode(t, `{
		"device_id": "1",
		"mac_address": "a-b",
		"device_policies": {
			"prevention": {"policy_id": "p1"},
			"sensor_update": {}
		}
	}`))
	if len(h.CrowdStrikeSecurity.Policies) != 1 || h.CrowdStrikeSecurity.Policies["prevention"] != "p1" {
		t.Fatalf("got policies %+v", h.CrowdStrikeSecurity.Policies)
	}
}
