package dictionary

import "sort"

// DefaultVersions lists the FIX versions scraped when none are configured
var DefaultVersions = []string{"4.0", "4.1", "4.2", "4.3", "4.4"}

// VersionMapping maps a FIX tag number to its field name
type VersionMapping map[int]string

// FixMappings holds one VersionMapping per successfully scraped version
type FixMappings map[string]VersionMapping

// Tags returns the mapping's tags in ascending order
func (m VersionMapping) Tags() []int {
	tags := make([]int, 0, len(m))
	for tag := range m {
		tags = append(tags, tag)
	}
	sort.Ints(tags)
	return tags
}

// Versions returns the versions present, sorted
func (f FixMappings) Versions() []string {
	versions := make([]string, 0, len(f))
	for v := range f {
		versions = append(versions, v)
	}
	sort.Strings(versions)
	return versions
}

// Len returns the total number of entries across all versions
func (f FixMappings) Len() int {
	total := 0
	for _, m := range f {
		total += len(m)
	}
	return total
}
