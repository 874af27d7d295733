package dedup

import (
	"sort"
	"time"

	"github.com/Ap3pp3rs94/hostfusion/internal/canonical"
)

// merge applies incoming onto existing in place, per the field-group
// semantics: non-null scalar overwrite, source_ids per-source overwrite,
// MAC-keyed network_interfaces with source-strip, (vendor,product,version)
// keyed installed_software with source-strip, shallow cloud_context merge,
// and wholesale replacement of whichever per-source security blob
// incoming carries. record_last_updated_at is stamped to now;
// record_created_at is never touched.
func merge(existing, incoming *canonical.Host) {
	mergeScalars(existing, incoming)
	mergeSourceIDs(existing, incoming)

	sourceTag := incoming.SourceTag()
	existing.NetworkInterfaces = mergeNetworkInterfaces(existing.NetworkInterfaces, incoming.NetworkInterfaces, sourceTag)
	existing.InstalledSoftware = mergeSoftware(existing.InstalledSoftware, incoming.InstalledSoftware, sourceTag)
	existing.CloudContext = mergeCloudContext(existing.CloudContext, incoming.CloudContext)

	if incoming.QualysSecurity != nil {
		existing.QualysSecurity = incoming.QualysSecurity
	}
	if incoming.CrowdStrikeSecurity != nil {
		existing.CrowdStrikeSecurity = incoming.CrowdStrikeSecurity
	}
	if incoming.TenableSecurity != nil {
		existing.TenableSecurity = incoming.TenableSecurity
	}

	now := time.Now().UTC().Format("2006-01-02T15:04:05.000000") + "Z"
	existing.RecordLastUpdatedAt = &now
}

func mergeScalars(existing, incoming *canonical.Host) {
	overwriteIfSet(&existing.Hostname, incoming.Hostname)
	overwriteIfSet(&existing.OSName, incoming.OSName)
	overwriteIfSet(&existing.OSPlatform, incoming.OSPlatform)
	overwriteIfSet(&existing.KernelVersion, incoming.KernelVersion)
	overwriteIfSet(&existing.Manufacturer, incoming.Manufacturer)
	overwriteIfSet(&existing.ProductModel, incoming.ProductModel)
	overwriteIfSet(&existing.ProcessorInfo, incoming.ProcessorInfo)
	overwriteIfSet(&existing.PublicIP, incoming.PublicIP)
	overwriteIfSet(&existing.PrivateIP, incoming.PrivateIP)
	overwriteIfSet(&existing.LastBootTimestamp, incoming.LastBootTimestamp)
	overwriteIfSet(&existing.DefaultGateway, incoming.DefaultGateway)
	overwriteIfSet(&existing.TotalMemoryMB, incoming.TotalMemoryMB)
	// primary_mac_address and cloud_instance_id are the matching keys
	// themselves; an incoming non-null value still wins so a later,
	// stronger observation sharpens future candidate lookups.
	overwriteIfSet(&existing.PrimaryMACAddress, incoming.PrimaryMACAddress)
	overwriteIfSet(&existing.CloudInstanceID, incoming.CloudInstanceID)
}

func overwriteIfSet[T any](existing **T, incoming *T) {
	if incoming != nil {
		*existing = incoming
	}
}

func mergeSourceIDs(existing, incoming *canonical.Host) {
	if existing.SourceIDs == nil {
		existing.SourceIDs = map[string]string{}
	}
	for k, v := range incoming.SourceIDs {
		existing.SourceIDs[k] = v
	}
}

func ifaceKey(n canonical.NetworkInterface) string {
	if n.MACAddress != nil {
		return *n.MACAddress
	}
	return ""
}

// mergeNetworkInterfaces drops every stored interface tagged with
// sourceTag, then for each incoming interface either unions it into a
// remaining interface sharing its MAC or appends it verbatim.
func mergeNetworkInterfaces(existing, incoming []canonical.NetworkInterface, sourceTag string) []canonical.NetworkInterface {
	stripped := make([]canonical.NetworkInterface, 0, len(existing))
	byMAC := map[string]int{}
	for _, iface := range existing {
		if containsSource(iface.Sources, sourceTag) {
			continue
		}
		byMAC[ifaceKey(iface)] = len(stripped)
		stripped = append(stripped, iface)
	}

	for _, in := range incoming {
		key := ifaceKey(in)
		if key != "" {
			if idx, ok := byMAC[key]; ok {
				existingIface := &stripped[idx]
				existingIface.Sources = unionSources(existingIface.Sources, in.Sources)
				overwriteIfSet(&existingIface.PrivateIPv4, in.PrivateIPv4)
				overwriteIfSet(&existingIface.PublicIPv4, in.PublicIPv4)
				overwriteIfSet(&existingIface.IPv6, in.IPv6)
				continue
			}
		}
		stripped = append(stripped, in)
		if key != "" {
			byMAC[key] = len(stripped) - 1
		}
	}

	return stripped
}

type softwareKey struct {
	vendor, product, version string
}

func softwareKeyOf(s canonical.Software) softwareKey {
	k := softwareKey{product: s.Product}
	if s.Vendor != nil {
		k.vendor = *s.Vendor
	}
	if s.Version != nil {
		k.version = *s.Version
	}
	return k
}

// mergeSoftware applies the same source-strip-then-merge-or-append
// pattern as mergeNetworkInterfaces, keyed by (vendor, product, version).
func mergeSoftware(existing, incoming []canonical.Software, sourceTag string) []canonical.Software {
	stripped := make([]canonical.Software, 0, len(existing))
	byKey := map[softwareKey]int{}
	for _, sw := range existing {
		if containsSource(sw.Sources, sourceTag) {
			continue
		}
		byKey[softwareKeyOf(sw)] = len(stripped)
		stripped = append(stripped, sw)
	}

	for _, in := range incoming {
		key := softwareKeyOf(in)
		if idx, ok := byKey[key]; ok {
			stripped[idx].Sources = unionSources(stripped[idx].Sources, in.Sources)
			continue
		}
		stripped = append(stripped, in)
		byKey[key] = len(stripped) - 1
	}

	return stripped
}

func mergeCloudContext(existing, incoming *canonical.CloudContext) *canonical.CloudContext {
	if incoming == nil {
		return existing
	}
	if existing == nil {
		return incoming
	}
	overwriteIfSet(&existing.Provider, incoming.Provider)
	overwriteIfSet(&existing.AccountID, incoming.AccountID)
	overwriteIfSet(&existing.InstanceID, incoming.InstanceID)
	overwriteIfSet(&existing.InstanceType, incoming.InstanceType)
	overwriteIfSet(&existing.Region, incoming.Region)
	overwriteIfSet(&existing.AvailabilityZone, incoming.AvailabilityZone)
	overwriteIfSet(&existing.ImageID, incoming.ImageID)
	overwriteIfSet(&existing.VPCID, incoming.VPCID)
	overwriteIfSet(&existing.SubnetID, incoming.SubnetID)
	return existing
}

func containsSource(sources []string, tag string) bool {
	for _, s := range sources {
		if s == tag {
			return true
		}
	}
	return false
}

// unionSources merges two source lists into a sorted, de-duplicated set.
func unionSources(a, b []string) []string {
	set := map[string]struct{}{}
	for _, s := range a {
		set[s] = struct{}{}
	}
	for _, s := range b {
		set[s] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
