package license

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Artifact and descriptor names
const (
	DescriptorFile = "SKILL.md"
	LicenseFile    = "LICENSE.txt"
	MetadataFile   = ".forensic_metadata.json"
)

// Version markers. The templates carry these lines verbatim.
const (
	StandardTitle       = "PROTECTIVE SKILLS LICENSE v1.0"
	MaximumTitle        = "PROTECTIVE SKILLS LICENSE - MAXIMUM PROTECTION v2.0"
	MaximumMarker       = "MAXIMUM PROTECTION v2.0"
	VersionLinePrefix   = "License Version: "
	MetadataVersion     = "2.0-MAXIMUM-PROTECTION"
	MetadataVersionTag  = "MAXIMUM-PROTECTION"
	SignatureAlgorithm  = "SHA256"
	MarkerPrefix        = "BTC-"
	DefaultCounty       = "Los Angeles"
	SealedContact       = "[SEALED - Contact through counsel only]"
	PermissionFeeNotice = "NOTICE: Permission requests require $10,000 processing fee"
	JointRightsClause   = "Both entities retain independent and joint enforcement rights."
)

// Values written to the descriptor's license: field
const (
	StandardDescriptorValue = "See LICENSE.txt for complete terms"
	MaximumDescriptorValue  = "MAXIMUM PROTECTION LICENSE v2.0 - See LICENSE.txt"
	MaximumDescriptorMarker = "MAXIMUM PROTECTION"
)

// DescriptorValue returns the license: value for a tier
func (t Tier) DescriptorValue() string {
	if t == TierMaximum {
		return MaximumDescriptorValue
	}
	return StandardDescriptorValue
}

// Clause is a literal a license must contain and the message reported when it
// is missing.
type Clause struct {
	Text    string
	Missing string
}

// BasicClauses are required in every license tier
var BasicClauses = []Clause{
	{"AI/ML TRAINING PROHIBITION", "Missing AI/ML training prohibition section"},
	{"SHALL NOT be used", "Missing explicit prohibition language"},
	{"training data for any artificial intelligence", "Missing AI training prohibition"},
	{"COMMERCIAL USE RESTRICTION", "Missing commercial use restriction"},
	{"REDISTRIBUTION RESTRICTION", "Missing redistribution restriction"},
	{"Copyright (c)", "Missing copyright notice"},
	{"All rights reserved", "Missing rights reservation"},
	{"LICENSE VIOLATIONS", "Missing violation consequences section"},
	{"GOVERNING LAW", "Missing governing law section"},
}

// AIProhibitionTerms must each appear (case-insensitive, whole word)
var AIProhibitionTerms = []string{
	"training data",
	"machine learning",
	"large language model",
	"fine-tuning",
	"embeddings",
	"vector representations",
	"retrieval-augmented generation",
	"RAG",
	"data mining",
	"synthetic data generation",
}

// MaximumClauses are required in addition to BasicClauses by the maximum tier.
// Damages amounts and statute citations have their own tables below.
var MaximumClauses = []Clause{
	{MaximumTitle, "Missing maximum protection license title"},
	{MaximumMarker, "Not maximum protection license version"},
	{"DIGITAL FINGERPRINT", "Missing digital fingerprint requirement"},
	{"forensic evidence", "Missing forensic tracking"},
	{"LIQUIDATED DAMAGES SCHEDULE", "Missing liquidated damages schedule"},
	{"$10,000 per day", "Missing continuing violation damages"},
	{"TRIPLE all damages", "Missing willful violation tripling provision"},
	{"10x all damages", "Missing major tech company multiplier"},
	{"$2.5M", "Missing major tech company minimum damages"},
	{"CRIMINAL LAW NOTICE", "Missing criminal law notice section"},
	{"WILL seek criminal prosecution", "Missing affirmative criminal prosecution commitment"},
	{"IMMEDIATE INJUNCTIVE RELIEF", "Missing immediate injunction remedy"},
	{"without bond", "Missing bond waiver for injunctions"},
	{"TREBLE DAMAGES", "Missing treble damages provision"},
	{"PUNITIVE DAMAGES", "Missing punitive damages remedy"},
	{"$10,000,000", "Missing punitive damages cap"},
	{"3x multiplier", "Missing attorney fee multiplier"},
	{"DISGORGEMENT", "Missing profit disgorgement remedy"},
	{"DESTRUCTION of all copies", "Missing destruction remedy"},
	{"PUBLIC DISCLOSURE", "Missing public disclosure remedy"},
	{"PERSONAL LIABILITY", "Missing personal liability section"},
	{"Corporate veils SHALL be pierced", "Missing corporate veil piercing"},
	{"Superior Court of California", "Missing exclusive jurisdiction"},
	{"NO JURY TRIAL", "Missing jury trial waiver for violators"},
	{"10 years from discovery", "Missing extended limitations period"},
	{"$1,000,000 bond", "Missing challenge bond requirement"},
	{"NO DEFENSE CLAUSE", "Missing no defense clause"},
	{"Fair use or research exception", "Missing fair use exclusion"},
	{"AUDIT RIGHTS", "Missing audit rights"},
	{"48-hour notice", "Missing forensic audit provision"},
	{"forensic examination", "Missing forensic examination right"},
	{"INTERNATIONAL ENFORCEMENT", "Missing international enforcement"},
	{"Berne Convention", "Missing Berne Convention reference"},
	{"SEVERABILITY WITH TEETH", "Missing enhanced severability"},
	{"DOUBLING of remaining", "Missing damage doubling provision"},
}

// Damage is one liquidated damages entry. The schedule line in the license and
// the metadata sidecar amount are both derived from Amount.
type Damage struct {
	Kind   string
	Label  string
	Amount int64
}

// LiquidatedDamages is the per-instance damages schedule, in license order
var LiquidatedDamages = []Damage{
	{Kind: "ai_training", Label: "AI/ML Training Violation", Amount: 250000},
	{Kind: "commercial_use", Label: "Commercial Use Violation", Amount: 100000},
	{Kind: "redistribution", Label: "Redistribution Violation", Amount: 50000},
	{Kind: "modification", Label: "Modification Violation", Amount: 75000},
	{Kind: "reverse_engineering", Label: "Reverse Engineering", Amount: 150000},
	{Kind: "circumvention", Label: "Circumvention Attempt", Amount: 500000},
}

// DamageFor looks up a schedule entry by kind
func DamageFor(kind string) (Damage, bool) {
	for _, d := range LiquidatedDamages {
		if d.Kind == kind {
			return d, true
		}
	}
	return Damage{}, false
}

// Text is the dollar amount as printed, e.g. "$250,000"
func (d Damage) Text() string {
	return FormatUSD(d.Amount)
}

// ScheduleLine is the exact schedule text for this entry
func (d Damage) ScheduleLine() string {
	return fmt.Sprintf("%s: %s per instance", d.Label, d.Text())
}

var usd = message.NewPrinter(language.English)

// FormatUSD formats a whole-dollar amount with thousands separators
func FormatUSD(amount int64) string {
	return usd.Sprintf("$%d", amount)
}

// Statute is a criminal statute cited by the maximum tier
type Statute struct {
	Citation string
	Name     string
	Short    string
}

// CriminalStatutes are cited in the license and listed in the metadata sidecar
var CriminalStatutes = []Statute{
	{Citation: "18 U.S.C. §1030", Name: "Computer Fraud and Abuse Act", Short: "CFAA"},
	{Citation: "18 U.S.C. §1831", Name: "Economic Espionage Act", Short: "Economic Espionage"},
	{Citation: "17 U.S.C. §1201", Name: "Digital Millennium Copyright Act", Short: "DMCA"},
	{Citation: "18 U.S.C. §1343", Name: "Wire Fraud", Short: "Wire Fraud"},
	{Citation: "18 U.S.C. §1961", Name: "RICO Act", Short: "RICO"},
	{Citation: "Cal. Penal Code §502", Name: "California computer crimes", Short: "California Computer Crimes"},
}

// Reference is the metadata form, e.g. "18 U.S.C. §1030 (CFAA)"
func (s Statute) Reference() string {
	return fmt.Sprintf("%s (%s)", s.Citation, s.Short)
}

// PlaceholderMarkers indicate an unfilled template
var PlaceholderMarkers = []string{
	"[YOUR NAME",
	"[Contact information to be provided]",
	"[YOUR EMAIL",
	"[YOUR JURISDICTION",
	"<no value>",
}
