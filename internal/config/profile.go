package config

// profile.go defines the region partition profile.
//
// A profile is the single place where deployments differ: which column holds
// the region, which values count as which region, whether a region's rows are
// re-shaped onto a fixed column template, and whether an "all rows" bucket is
// returned alongside the regional ones. It is loaded once at startup and
// passed into the pipeline; nothing downstream reads the environment.

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultAllBucket is the response key for the all-rows bucket.
const DefaultAllBucket = "entire_data"

// RegionDef is one named region bucket.
type RegionDef struct {
	// Name is the response key for this bucket (e.g. "karnataka").
	Name string `yaml:"name" json:"name"`

	// Accept lists the classification values that belong to this region.
	// Matching is case-insensitive on trimmed values.
	Accept []string `yaml:"accept" json:"accept"`

	// Template is the ordered output column list. Nil means the bucket is
	// returned with every column unchanged.
	Template []string `yaml:"template,omitempty" json:"template,omitempty"`
}

// Profile is the immutable partition configuration.
type Profile struct {
	ClassificationColumn string      `yaml:"classification_column" json:"classification_column"`
	Regions              []RegionDef `yaml:"regions" json:"regions"`
	IncludeAll           bool        `yaml:"include_all" json:"include_all"`
	AllBucket            string      `yaml:"all_bucket,omitempty" json:"all_bucket,omitempty"`
	WorksheetIndex       int         `yaml:"worksheet_index" json:"worksheet_index"`
}

// Survey column templates used by the default profile.
var (
	KarnatakaTemplate = []string{
		"state", "district", "taluk", "hobli", "village", "village_lgd_code",
		"id", "village_match_status", "survey_match_status",
		"state_ss_initial", "district_ss_initial", "taluk_ss_initial", "taluk_id",
		"village_ss_initial", "lgd_code_ss", "confidence_score",
		"soundex_check", "survey_number", "survey_id", "geometry_id",
	}

	MPMaharashtraTemplate = []string{
		"state", "district", "tehsil", "mandal", "village", "village_lgd_code",
		"id", "village_match_status", "survey_match_status",
		"state_ss_initial", "district_ss_initial", "tehsil_ss_initial", "tehsil_id",
		"village_ss_initial", "lgd_code_ss", "confidence_score",
		"soundex_check", "survey_number", "survey_id", "geometry_id",
	}
)

// DefaultProfile returns the profile used when no REGIONS_FILE is configured.
func DefaultProfile() Profile {
	return Profile{
		ClassificationColumn: "state",
		Regions: []RegionDef{
			{
				Name:     "karnataka",
				Accept:   []string{"karnataka"},
				Template: append([]string(nil), KarnatakaTemplate...),
			},
			{
				Name:     "mp_maha",
				Accept:   []string{"madhya pradesh", "maharashtra"},
				Template: append([]string(nil), MPMaharashtraTemplate...),
			},
		},
		AllBucket: DefaultAllBucket,
	}
}

// LoadProfile reads a YAML profile from path. Unknown keys are rejected so a
// typo in a region file fails at startup rather than silently dropping rows.
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read regions file: %w", err)
	}
	return ParseProfile(data)
}

// ParseProfile decodes a YAML profile document.
func ParseProfile(data []byte) (Profile, error) {
	var p Profile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return Profile{}, fmt.Errorf("parse regions file: %w", err)
	}
	if p.AllBucket == "" {
		p.AllBucket = DefaultAllBucket
	}
	return p, nil
}

// Validate checks the profile for structural problems.
// Returns an error describing all validation failures.
func (p *Profile) Validate() error {
	var errs []string

	if strings.TrimSpace(p.ClassificationColumn) == "" {
		errs = append(errs, "classification_column is required")
	} else if !isCanonical(p.ClassificationColumn) {
		errs = append(errs, fmt.Sprintf("classification_column %q must be a canonical column name", p.ClassificationColumn))
	}

	if len(p.Regions) == 0 && !p.IncludeAll {
		errs = append(errs, "at least one region is required unless include_all is set")
	}
	if p.WorksheetIndex < 0 {
		errs = append(errs, "worksheet_index must be non-negative")
	}

	seen := make(map[string]bool, len(p.Regions)+1)
	if p.IncludeAll {
		seen[p.AllBucket] = true
	}
	for i, r := range p.Regions {
		if r.Name == "" {
			errs = append(errs, fmt.Sprintf("regions[%d]: name is required", i))
			continue
		}
		if seen[r.Name] {
			errs = append(errs, fmt.Sprintf("regions[%d]: duplicate bucket name %q", i, r.Name))
		}
		seen[r.Name] = true

		if len(r.Accept) == 0 {
			errs = append(errs, fmt.Sprintf("region %q: accept list is empty", r.Name))
		}
		if r.Template != nil && len(r.Template) == 0 {
			errs = append(errs, fmt.Sprintf("region %q: template is empty; omit it to pass columns through", r.Name))
		}
		for _, col := range r.Template {
			if !isCanonical(col) {
				errs = append(errs, fmt.Sprintf("region %q: template column %q must be a canonical column name", r.Name, col))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid profile:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// BucketNames returns response keys in output order.
func (p *Profile) BucketNames() []string {
	names := make([]string, 0, len(p.Regions)+1)
	for _, r := range p.Regions {
		names = append(names, r.Name)
	}
	if p.IncludeAll {
		names = append(names, p.AllBucket)
	}
	return names
}

// isCanonical reports whether name is already lowercase, trimmed, and free of
// whitespace and slashes.
func isCanonical(name string) bool {
	if name == "" || name != strings.ToLower(strings.TrimSpace(name)) {
		return false
	}
	return !strings.ContainsAny(name, " \t\r\n/")
}
