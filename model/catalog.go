// Package model defines the data structures used by the assurance-backend,
// including framework catalogs, evidence records, assessments, and packs.
package model

import "strings"

// Framework identifies a supported regulatory control framework.
type Framework string

const (
	// FrameworkSWIFTCSP represents the SWIFT Customer Security Programme (CSCF).
	FrameworkSWIFTCSP Framework = "SWIFT_CSP"
	// FrameworkSOC2 represents SOC 2 Trust Services Criteria.
	FrameworkSOC2 Framework = "SOC2"
	// FrameworkISO27001 represents ISO/IEC 27001:2022.
	FrameworkISO27001 Framework = "ISO27001_2022"
	// FrameworkPCIDSS represents PCI DSS v4.
	FrameworkPCIDSS Framework = "PCI_DSS"
)

// KnownFrameworks returns the frameworks the catalog loader accepts.
func KnownFrameworks() []Framework {
	return []Framework{FrameworkSWIFTCSP, FrameworkSOC2, FrameworkISO27001, FrameworkPCIDSS}
}

// Architecture represents a SWIFT infrastructure architecture variant.
type Architecture string

const (
	ArchitectureA1 Architecture = "A1"
	ArchitectureA2 Architecture = "A2"
	ArchitectureA3 Architecture = "A3"
	ArchitectureA4 Architecture = "A4"
	ArchitectureB  Architecture = "B"
)

// KnownArchitectures returns the architecture variants a catalog may reference.
func KnownArchitectures() []Architecture {
	return []Architecture{ArchitectureA1, ArchitectureA2, ArchitectureA3, ArchitectureA4, ArchitectureB}
}

// ControlType distinguishes mandatory controls from advisory ones.
type ControlType string

const (
	ControlTypeMandatory ControlType = "mandatory"
	ControlTypeAdvisory  ControlType = "advisory"
)

// Question is an immutable assessment question definition belonging to a
// framework catalog. The first two dot-segments of ID identify the owning
// control (e.g. "1.1.d.1" belongs to control "1.1").
type Question struct {
	ID         string `json:"id" yaml:"id"`
	Section    string `json:"section" yaml:"section"`
	Subsection string `json:"subsection" yaml:"subsection"`
	Question   string `json:"question" yaml:"question"`
	Guideline  string `json:"guideline" yaml:"guideline"`
}

// ArchitectureScope records whether a control applies to one architecture
// variant and, when it does, the scope note shown to assessors.
type ArchitectureScope struct {
	Applicable bool   `json:"is_applicable" yaml:"is_applicable"`
	Scope      string `json:"scope" yaml:"scope"`
}

// Control is a single control row of the applicability matrix.
type Control struct {
	ControlID     string                       `json:"control_id" yaml:"control_id"`
	Name          string                       `json:"name" yaml:"name"`
	Type          ControlType                  `json:"type" yaml:"type"`
	Keywords      []string                     `json:"keywords" yaml:"keywords"`
	EvidenceTypes []string                     `json:"evidence_types" yaml:"evidence_types"`
	Architectures map[string]ArchitectureScope `json:"architectures" yaml:"architectures"`
}

// ControlDomain groups controls under a named framework domain.
type ControlDomain struct {
	Name     string    `json:"name" yaml:"name"`
	Controls []Control `json:"controls" yaml:"controls"`
}

// ControlApplicabilityMatrix maps controls to the architecture variants they
// apply to. Domain and control order is significant and preserved from the
// catalog asset.
type ControlApplicabilityMatrix struct {
	Framework Framework       `json:"framework" yaml:"framework"`
	Version   string          `json:"version" yaml:"version"`
	Domains   []ControlDomain `json:"domains" yaml:"domains"`
}

// FindControl scans domains then controls for an exact control_id match.
func (m *ControlApplicabilityMatrix) FindControl(controlID string) *Control {
	for di := range m.Domains {
		for ci := range m.Domains[di].Controls {
			if m.Domains[di].Controls[ci].ControlID == controlID {
				return &m.Domains[di].Controls[ci]
			}
		}
	}
	return nil
}

// ControlIDForQuestion derives the owning control id from a question id by
// taking its first two dot-separated segments. Ids with fewer than two
// segments have no derivable control and yield "".
func ControlIDForQuestion(questionID string) string {
	parts := strings.Split(questionID, ".")
	if len(parts) < 2 {
		return ""
	}
	return parts[0] + "." + parts[1]
}
