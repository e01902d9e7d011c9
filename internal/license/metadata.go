package license

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"time"
)

// MetadataSchema is the JSON Schema (draft 2020-12) of the sidecar
//
//go:embed schema/forensic_metadata.schema.json
var MetadataSchema string

// ForensicMetadata is the machine-readable sidecar of a maximum tier license
type ForensicMetadata struct {
	LicenseVersion   string           `json:"license_version"`
	Entity           string           `json:"entity"`
	Generated        string           `json:"generated"`
	DigitalSignature string           `json:"digital_signature"`
	BlockchainMarker string           `json:"blockchain_marker"`
	SkillPath        string           `json:"skill_path"`
	ForensicTracking ForensicTracking `json:"forensic_tracking"`
	Enforcement      Enforcement      `json:"enforcement"`
}

// ForensicTracking describes the (cosmetic) tracking settings
type ForensicTracking struct {
	WatermarkType      string `json:"watermark_type"`
	SignatureAlgorithm string `json:"signature_algorithm"`
	TrackingEnabled    bool   `json:"tracking_enabled"`
	AuditLogRequired   bool   `json:"audit_log_required"`
}

// Enforcement mirrors the damages schedule and statute list of the license
type Enforcement struct {
	LiquidatedDamages map[string]int64 `json:"liquidated_damages"`
	CriminalStatutes  []string         `json:"criminal_statutes"`
}

// NewForensicMetadata builds the sidecar for a maximum tier render
func NewForensicMetadata(r *Rendered) (*ForensicMetadata, error) {
	if r.Tier != TierMaximum {
		return nil, fmt.Errorf("forensic metadata is only produced for the %s tier, got %s", TierMaximum, r.Tier)
	}

	damages := make(map[string]int64, len(LiquidatedDamages))
	for _, d := range LiquidatedDamages {
		damages[d.Kind] = d.Amount
	}

	statutes := make([]string, 0, len(CriminalStatutes))
	for _, s := range CriminalStatutes {
		statutes = append(statutes, s.Reference())
	}

	return &ForensicMetadata{
		LicenseVersion:   MetadataVersion,
		Entity:           r.EntityName,
		Generated:        r.Generated.UTC().Format(time.RFC3339),
		DigitalSignature: r.Signature,
		BlockchainMarker: r.Marker,
		SkillPath:        r.SkillPath,
		ForensicTracking: ForensicTracking{
			WatermarkType:      "steganographic",
			SignatureAlgorithm: SignatureAlgorithm,
			TrackingEnabled:    true,
			AuditLogRequired:   true,
		},
		Enforcement: Enforcement{
			LiquidatedDamages: damages,
			CriminalStatutes:  statutes,
		},
	}, nil
}

// Marshal returns the sidecar file content
func (m *ForensicMetadata) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode forensic metadata: %w", err)
	}
	return append(data, '\n'), nil
}

// ParseForensicMetadata decodes sidecar content
func ParseForensicMetadata(data []byte) (*ForensicMetadata, error) {
	var m ForensicMetadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("invalid JSON in forensic metadata: %w", err)
	}
	return &m, nil
}
